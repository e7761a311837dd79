package company

// Detect returns the code of the first registered profile with a keyword present in
// text, or Unknown.
func Detect(text string) Code {
	if p, ok := DetectProfile(text); ok {
		return p.Code
	}
	return Unknown
}

// DetectProfile is Detect returning the whole profile.
func DetectProfile(text string) (Profile, bool) {
	if text == "" {
		return Profile{}, false
	}
	for _, p := range registry {
		for _, re := range p.Keywords {
			if re.MatchString(text) {
				return p, true
			}
		}
	}
	return Profile{}, false
}
