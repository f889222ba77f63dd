// Package assemble substitutes the %%TOKEN%% placeholders of a letter
// template with profile fields, extracted job data and the generated body,
// and derives the output file-name stem.
package assemble

import (
	"strings"

	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/profile"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	outputPrefix = "lettre_motivation_"

	// Placeholder values for information the pipeline does not extract.
	companyFallback = "Nom de l'entreprise"
	addressFallback = "Adresse de l'entreprise"
)

var titleCaser = cases.Title(language.French)

// Input carries everything the assembler substitutes into the template.
type Input struct {
	// Template is the selected template text with %%TOKEN%% placeholders.
	Template string
	// Profile supplies the candidate tokens (NOM_COMPLET, ADRESSE, ...).
	Profile *profile.Profile
	// Body replaces %%CORPS_LETTRE%%. May be empty; every other token is
	// still substituted so the result stays well-formed.
	Body string
	// Info supplies %%POSTE_VISE%% and %%NOM_ENTREPRISE%% when present.
	Info *jobad.Info
	// Ad provides the fallback identity for naming when Info is absent.
	Ad *jobad.Ad
}

// Document is the fully substituted template plus the derived file-name stem.
type Document struct {
	Text string
	Stem string
}

// Build performs the substitution. Substitutions are independent: the order
// in which tokens are replaced never changes the result, because generated
// values are never re-scanned for tokens.
func Build(in Input) *Document {
	text := in.Template

	for token, value := range in.Profile.Placeholders() {
		text = strings.ReplaceAll(text, "%%"+token+"%%", value)
	}

	text = strings.ReplaceAll(text, "%%CORPS_LETTRE%%", in.Body)

	title := in.Info.JobTitle()
	company := in.Info.CompanyName()
	if title == "" {
		title = fallbackTitle(in.Ad)
	}
	if company == "" {
		company = companyFallback
	}

	text = strings.ReplaceAll(text, "%%POSTE_VISE%%", title)
	text = strings.ReplaceAll(text, "%%NOM_ENTREPRISE%%", company)
	// No address extraction exists; the template always gets a placeholder.
	text = strings.ReplaceAll(text, "%%ADRESSE_ENTREPRISE%%", addressFallback)

	return &Document{
		Text: text,
		Stem: deriveStem(in.Info, in.Ad),
	}
}

// deriveStem builds the output file-name stem. With job info available the
// stem comes from a sanitized company+title composite, otherwise from the ad
// identity.
func deriveStem(info *jobad.Info, ad *jobad.Ad) string {
	if title, company := info.JobTitle(), info.CompanyName(); title != "" || company != "" {
		composite := strings.TrimSpace(strings.TrimSpace(company) + " " + strings.TrimSpace(title))
		return outputPrefix + sanitize(composite)
	}
	return outputPrefix + sanitize(fallbackTitle(ad))
}

// fallbackTitle recovers a display title from the ad file identity: strip the
// extension, turn underscores into spaces, drop the literal "annonce" marker
// and title-case the rest.
func fallbackTitle(ad *jobad.Ad) string {
	name := strings.ReplaceAll(ad.Stem(), "_", " ")
	name = strings.ReplaceAll(name, "annonce", "")
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(name)
}

// sanitize removes characters unsafe for file names and joins words with
// underscores.
func sanitize(s string) string {
	replacer := strings.NewReplacer("-", " ", "/", " ", "\\", " ", "'", " ", "\"", " ")
	return strings.Join(strings.Fields(replacer.Replace(s)), "_")
}
