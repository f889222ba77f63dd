// Package profile holds the candidate's static self-description, loaded once
// from configuration and shared read-only across a run.
package profile

import (
	"errors"
	"strings"
)

// Profile is the caller-supplied candidate record. Configuration keys keep
// the French names of the historical config.json so existing user configs
// keep working.
type Profile struct {
	FullName   string   `mapstructure:"nom_complet"`
	Address    string   `mapstructure:"adresse"`
	PostalCity string   `mapstructure:"code_postal"`
	Email      string   `mapstructure:"email"`
	Phone      string   `mapstructure:"telephone"`
	Summary    string   `mapstructure:"resume_personnel"`
	KeySkills  []string `mapstructure:"competences_cles"`

	// School and its alternate historical name, e.g. "IMT Nord Europe"
	// formerly "Mines de Douai". When both are set the composer instructs
	// the model to name the former name verbatim on first mention.
	School           string `mapstructure:"ecole"`
	SchoolFormerName string `mapstructure:"ecole_ancien_nom"`
}

// Validate checks the fields the pipeline cannot run without.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile section is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("profile: nom_complet is required")
	}
	return nil
}

// Placeholders maps template token names to their substitution values.
// List-valued fields are flattened to a comma-joined string.
func (p *Profile) Placeholders() map[string]string {
	if p == nil {
		return map[string]string{}
	}
	return map[string]string{
		"NOM_COMPLET":      p.FullName,
		"ADRESSE":          p.Address,
		"CODE_POSTAL":      p.PostalCity,
		"EMAIL":            p.Email,
		"TELEPHONE":        p.Phone,
		"RESUME_PERSONNEL": p.Summary,
		"COMPETENCES_CLES": strings.Join(p.KeySkills, ", "),
	}
}

// SkillsJoined returns the key skills as a single comma-joined string for
// prompt embedding.
func (p *Profile) SkillsJoined() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.KeySkills, ", ")
}
