package templates

import (
	"strings"

	"github.com/tsailly/lettre-gen/internal/jobad"
)

// rule pairs a predicate with the template it selects. Rules are evaluated in
// order, first match wins.
type rule struct {
	name    string
	matches func(info *jobad.Info) bool
	choice  string
}

// Keyword stems are matched case-insensitively as substrings, so "moderne"
// and "modern", "innovant" and "innovative" hit the same stem.
var (
	modernToneHints     = []string{"startup", "modern", "innov", "dynami"}
	techSectorHints     = []string{"tech", "digital", "innovation", "logiciel", "software"}
	minimalToneHints    = []string{"minimal", "épuré", "epure"}
	creativeSectorHints = []string{"design", "créa", "crea", "graphisme", "communication"}
	corpSectorHints     = []string{"consulting", "conseil", "finance", "audit", "banque", "banking"}
	formalToneHints     = []string{"formal", "formel", "sobre", "classique", "premium"}
)

// NOTE: an earlier revision of this rule table resolved every branch to the
// default template, making the branching a no-op. The branch structure was
// always intended as the extension point, so the distinct identifiers below
// restore one template per branch rather than copying the collapsed mapping.
var rules = []rule{
	{
		name: "ton moderne ou secteur tech",
		matches: func(info *jobad.Info) bool {
			return containsAny(info.ToneDescriptor(), modernToneHints) ||
				containsAny(info.SectorName(), techSectorHints)
		},
		choice: Moderne,
	},
	{
		name: "ton épuré ou secteur créatif",
		matches: func(info *jobad.Info) bool {
			return containsAny(info.ToneDescriptor(), minimalToneHints) ||
				containsAny(info.SectorName(), creativeSectorHints)
		},
		choice: Minimaliste,
	},
	{
		name: "secteur conseil ou finance",
		matches: func(info *jobad.Info) bool {
			return containsAny(info.SectorName(), corpSectorHints)
		},
		choice: Elegant,
	},
	{
		name: "ton formel",
		matches: func(info *jobad.Info) bool {
			return containsAny(info.ToneDescriptor(), formalToneHints)
		},
		choice: Elegant,
	},
}

// Select maps the extracted tone and sector signals to a template identifier.
// Pure function: identical input always yields the identical choice. A nil
// info (failed extraction) selects the default template.
func Select(info *jobad.Info) string {
	if info == nil {
		return Classique
	}

	for _, r := range rules {
		if r.matches(info) {
			return r.choice
		}
	}

	return Classique
}

func containsAny(s string, hints []string) bool {
	if s == "" {
		return false
	}
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
