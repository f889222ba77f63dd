// Package extract turns raw job-ad text into a structured jobad.Info record
// via a single generative call with a fixed-schema prompt.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"

	"github.com/tsailly/lettre-gen/internal/ai"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/logger"

	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Extractor asks the generative service for a structured view of an ad.
type Extractor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

// New creates an Extractor. maxLogLength bounds prompt/response previews in
// debug logs.
func New(generator ai.Generator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract sends the ad text to the generative service and parses the JSON
// reply into a jobad.Info. The reply may be wrapped in markdown code fences.
// On parse failure the caller receives (nil, error) and is expected to
// continue in degraded mode.
func (e *Extractor) Extract(ctx context.Context, ad *jobad.Ad) (*jobad.Info, error) {
	if ad == nil || strings.TrimSpace(ad.Text) == "" {
		return nil, jobad.ErrMissingInput
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{JOB_AD_TEXT}}", ad.Text)

	e.logger.Debug("job info extraction request",
		zap.String("ad", ad.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("extract job info: %w", err)
	}

	e.logger.Debug("job info extraction response",
		zap.String("ad", ad.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	info, err := parseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse job info for %q: %w", ad.Name, err)
	}

	return info, nil
}

// parseResponse strips optional markdown fencing, then decodes the JSON
// object. The decode is deliberately weak: the model sometimes returns
// numbers for strings or a single string where a list was asked for.
func parseResponse(raw string) (*jobad.Info, error) {
	cleaned := stripFences(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("response is not valid json: %w", err)
	}

	info := &jobad.Info{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           info,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode job info fields: %w", err)
	}

	return info, nil
}

// stripFences removes leading/trailing markdown code-fence markers. Applying
// it to an already-clean payload is a no-op.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
