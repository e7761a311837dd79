// Package company holds the static registry of known purchase order issuers and the
// detector that picks one from document text.
//
// The registry is decoded once from the embedded profiles.yaml during package
// initialization and is never mutated afterwards, so every accessor is safe for
// concurrent use without locking.
package company

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Code identifies a company profile.
type Code string

const (
	Sidel     Code = "SIDEL"
	Krones    Code = "KRONES"
	TetraPak  Code = "TETRAPAK"
	AlfaLaval Code = "ALFALAVAL"
	GEA       Code = "GEA"
	Unknown   Code = "UNKNOWN"
)

// ParserKind selects a company-specialized line-item parser.
type ParserKind int

const (
	ParserNone ParserKind = iota
	ParserSidel
)

func (k ParserKind) String() string {
	switch k {
	case ParserSidel:
		return "sidel"
	default:
		return "none"
	}
}

// Profile describes how to recognize one issuing organization.
type Profile struct {
	Code        Code
	DisplayName string
	Keywords    []*regexp.Regexp
	Parser      ParserKind
}

// HasSpecializedParser reports whether line items get a dedicated tier.
func (p Profile) HasSpecializedParser() bool {
	return p.Parser != ParserNone
}

//go:embed profiles.yaml
var profilesYAML []byte

type yamlProfile struct {
	Code        string   `yaml:"code"`
	DisplayName string   `yaml:"display_name"`
	Keywords    []string `yaml:"keywords"`
	Parser      string   `yaml:"parser"`
}

type yamlRegistry struct {
	Profiles []yamlProfile `yaml:"profiles"`
}

var registry = mustLoad(profilesYAML)

func mustLoad(data []byte) []Profile {
	profiles, err := load(data)
	if err != nil {
		panic(fmt.Sprintf("company: embedded profiles: %v", err))
	}
	return profiles
}

func load(data []byte) ([]Profile, error) {
	var raw yamlRegistry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := make([]Profile, 0, len(raw.Profiles))
	seen := make(map[Code]struct{}, len(raw.Profiles))
	for _, yp := range raw.Profiles {
		code := Code(yp.Code)
		if code == "" || code == Unknown {
			return nil, fmt.Errorf("invalid profile code %q", yp.Code)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("duplicate profile code %q", code)
		}
		seen[code] = struct{}{}

		kind, err := parseKind(yp.Parser)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", code, err)
		}
		p := Profile{Code: code, DisplayName: yp.DisplayName, Parser: kind}
		for _, kw := range yp.Keywords {
			re, err := regexp.Compile(`(?i)` + kw)
			if err != nil {
				return nil, fmt.Errorf("profile %s: keyword %q: %w", code, kw, err)
			}
			p.Keywords = append(p.Keywords, re)
		}
		if len(p.Keywords) == 0 {
			return nil, fmt.Errorf("profile %s: no keywords", code)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseKind(s string) (ParserKind, error) {
	switch s {
	case "", "none":
		return ParserNone, nil
	case "sidel":
		return ParserSidel, nil
	default:
		return ParserNone, fmt.Errorf("unknown parser %q", s)
	}
}

// All returns the profiles in registration order.
func All() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the profile registered under code.
func Lookup(code Code) (Profile, bool) {
	for _, p := range registry {
		if p.Code == code {
			return p, true
		}
	}
	return Profile{}, false
}
