// Package compose builds the letter-body prompt and runs the generative call
// producing the prose that lands between the salutation and the signature.
package compose

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/tsailly/lettre-gen/internal/ai"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/logger"
	"github.com/tsailly/lettre-gen/internal/profile"

	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	// DefaultMaxLength caps the letter body, spaces included.
	DefaultMaxLength = 2500

	defaultTemperature = 0.7
	defaultMaxLogLen   = 200
	digestTopN         = 5
)

// DefaultBannedPhrases are clichés the model must not produce. Overridable
// via configuration; the validator re-checks them after generation.
var DefaultBannedPhrases = []string{
	"je me permets de vous adresser",
	"c'est avec un grand intérêt",
	"veuillez agréer",
	"madame, monsieur",
	"dans l'attente de votre réponse",
	"rejoindre une entreprise dynamique",
}

// Config tunes the composer.
type Config struct {
	// MaxLength caps the body length in characters, spaces included.
	MaxLength int
	// BannedPhrases overrides DefaultBannedPhrases when non-empty.
	BannedPhrases []string
	// Temperature overrides the default sampling temperature when non-nil.
	Temperature *float32
	// MaxLogLength bounds prompt/response previews at debug level.
	MaxLogLength int
}

// Composer generates letter bodies for a fixed candidate profile.
type Composer struct {
	generator   ai.Generator
	profile     *profile.Profile
	maxLength   int
	banned      []string
	temperature *float32
	maxLogLen   int
	logger      *zap.Logger
}

// New creates a Composer bound to the given candidate profile.
func New(generator ai.Generator, prof *profile.Profile, cfg Config, log *zap.Logger) *Composer {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if len(cfg.BannedPhrases) == 0 {
		cfg.BannedPhrases = DefaultBannedPhrases
	}
	if cfg.Temperature == nil {
		cfg.Temperature = ai.Float32(defaultTemperature)
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLen
	}

	return &Composer{
		generator:   generator,
		profile:     prof,
		maxLength:   cfg.MaxLength,
		banned:      cfg.BannedPhrases,
		temperature: cfg.Temperature,
		maxLogLen:   cfg.MaxLogLength,
		logger:      log,
	}
}

// MaxLength returns the configured body length cap.
func (c *Composer) MaxLength() int { return c.maxLength }

// BannedPhrases returns the configured cliché list.
func (c *Composer) BannedPhrases() []string { return c.banned }

// Compose builds the prompt from the candidate profile, the extracted job
// info when available, optional caller instructions and the full ad text,
// then runs a single generative call. The ad text alone is enough: a nil
// info simply drops the digest block, keeping the pipeline usable when
// extraction failed.
func (c *Composer) Compose(ctx context.Context, ad *jobad.Ad, info *jobad.Info, instructions string) (string, error) {
	if ad == nil || strings.TrimSpace(ad.Text) == "" {
		return "", jobad.ErrMissingInput
	}

	prompt := c.buildPrompt(ad, info, instructions)

	c.logger.Debug("letter composition request",
		zap.String("ad", ad.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	body, err := c.generator.GenerateContent(ctx, prompt, &ai.Options{
		Temperature:           c.temperature,
		BlockOnlyHighSeverity: true,
	})
	if err != nil {
		return "", fmt.Errorf("compose letter body: %w", err)
	}

	c.logger.Debug("letter composition response",
		zap.String("ad", ad.Name),
		zap.Int("response_length", utf8.RuneCountInString(body)),
		zap.String("response_preview", logger.TruncateForLog(body, c.maxLogLen)),
	)

	return strings.TrimSpace(body), nil
}

func (c *Composer) buildPrompt(ad *jobad.Ad, info *jobad.Info, instructions string) string {
	prompt := promptTemplate
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_BLOCK}}", c.candidateBlock())
	prompt = strings.ReplaceAll(prompt, "{{JOB_INFO_BLOCK}}", jobInfoBlock(info))
	prompt = strings.ReplaceAll(prompt, "{{INSTRUCTIONS_BLOCK}}", instructionsBlock(instructions))
	prompt = strings.ReplaceAll(prompt, "{{JOB_AD_TEXT}}", ad.Text)
	prompt = strings.ReplaceAll(prompt, "{{SCHOOL_RULE}}", c.schoolRule())
	prompt = strings.ReplaceAll(prompt, "{{BANNED_PHRASES}}", quoteJoin(c.banned))
	prompt = strings.ReplaceAll(prompt, "{{MAX_LENGTH}}", fmt.Sprintf("%d", c.maxLength))
	return prompt
}

func (c *Composer) candidateBlock() string {
	lines := []string{
		"- Nom : " + valueOr(c.profile.FullName, "N/A"),
		"- Profil résumé : " + valueOr(c.profile.Summary, "N/A"),
		"- Compétences clés : " + valueOr(c.profile.SkillsJoined(), "N/A"),
	}
	if school := strings.TrimSpace(c.profile.School); school != "" {
		lines = append(lines, "- École : "+school)
	}
	return strings.Join(lines, "\n")
}

// schoolRule tells the model to cite the school's former name verbatim on
// first mention, when the profile declares one.
func (c *Composer) schoolRule() string {
	school := strings.TrimSpace(c.profile.School)
	former := strings.TrimSpace(c.profile.SchoolFormerName)
	if school == "" || former == "" {
		return ""
	}
	return fmt.Sprintf("- À la première mention de l'école du candidat, écris exactement « %s (anciennement %s) ».\n", school, former)
}

// jobInfoBlock condenses the extracted record into a field-by-field digest.
// Empty fields are omitted so the model never sees placeholder noise.
func jobInfoBlock(info *jobad.Info) string {
	if info == nil {
		return ""
	}

	var lines []string
	appendLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("- %s : %s", label, value))
		}
	}

	appendLine("Entreprise", info.CompanyName())
	appendLine("Poste", info.JobTitle())
	appendLine("Type de contrat", info.ContractType)
	appendLine("Lieu", info.Location)
	appendLine("Secteur", info.Sector)
	appendLine("Missions principales", strings.Join(info.TopResponsibilities(digestTopN), "; "))
	appendLine("Compétences exigées", strings.Join(info.TopSkills(digestTopN), ", "))
	appendLine("Outils", strings.Join(info.Tools(), ", "))
	appendLine("Valeurs de l'entreprise", strings.Join(info.Values(), ", "))
	appendLine("Ton de l'annonce", info.Tone)

	if len(lines) == 0 {
		return ""
	}

	return "**Éléments extraits de l'annonce :**\n" + strings.Join(lines, "\n") + "\n\n"
}

func instructionsBlock(instructions string) string {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return ""
	}
	return "**Consignes supplémentaires du candidat :**\n" + instructions + "\n\n"
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func quoteJoin(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("« %s »", item))
	}
	return strings.Join(quoted, ", ")
}
