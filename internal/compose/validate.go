package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Violation flags a letter body that breaks a prompt-side constraint. The
// constraints are stated in the prompt, but models do not always honor them,
// so the contract is enforced in code as well.
type Violation struct {
	Kind    string
	Details string
}

func (v Violation) String() string {
	return v.Kind + ": " + v.Details
}

// Markup characters the prompt forbids. A legitimate French letter body
// contains none of them.
var markupMarkers = []string{"**", "*", "_", "#", "`"}

// Validate checks the generated body against the length cap and the banned
// phrase list. Violations are reported, not fixed: the caller decides whether
// to keep, log or regenerate.
func (c *Composer) Validate(body string) []Violation {
	var violations []Violation

	if length := utf8.RuneCountInString(body); length > c.maxLength {
		violations = append(violations, Violation{
			Kind:    "length",
			Details: fmt.Sprintf("corps de %d caractères, maximum %d", length, c.maxLength),
		})
	}

	lowered := strings.ToLower(body)
	for _, phrase := range c.banned {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		if strings.Contains(lowered, phrase) {
			violations = append(violations, Violation{
				Kind:    "banned_phrase",
				Details: fmt.Sprintf("formule interdite présente : %q", phrase),
			})
		}
	}

	for _, marker := range markupMarkers {
		if strings.Contains(body, marker) {
			violations = append(violations, Violation{
				Kind:    "markup",
				Details: fmt.Sprintf("caractère de mise en forme %q présent", marker),
			})
			break
		}
	}

	return violations
}
