package parser

import (
	"github.com/joseph-ayodele/po-extract/internal/company"
	"github.com/joseph-ayodele/po-extract/internal/entity"
)

// Tier names, reported in debug logs.
const (
	TierStructured  = "structured"
	TierSpecialized = "specialized"
	TierGeneric     = "generic"
	TierFallback    = "fallback"
	TierColumnMap   = "column_map"
	TierPositional  = "positional"
	TierNone        = "none"
)

// tableInput is the per-document view handed to the text tiers.
type tableInput struct {
	sanitized []string // physical lines after noise removal
	rows      []string // logical rows
	profile   *company.Profile
}

// tier returns the items it could extract, or none to defer to the next tier.
type tier struct {
	name string
	run  func(in tableInput) []entity.LineItem
}

// textTiers run in strict priority order.
var textTiers = []tier{
	{TierStructured, structuredTier},
	{TierSpecialized, specializedTier},
	{TierGeneric, genericTier},
	{TierFallback, fallbackTier},
}

// runTiers returns the result of the first tier producing an item.
func runTiers(tiers []tier, in tableInput) (string, []entity.LineItem) {
	for _, t := range tiers {
		if items := t.run(in); len(items) > 0 {
			return t.name, items
		}
	}
	return TierNone, nil
}

// specializedTier dispatches on the detected company's parser kind.
func specializedTier(in tableInput) []entity.LineItem {
	if in.profile == nil {
		return nil
	}
	switch in.profile.Parser {
	case company.ParserSidel:
		return parseSidel(in.rows)
	case company.ParserNone:
		return nil
	}
	return nil
}
