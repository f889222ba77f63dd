package ai

import "context"

// Options tunes a single generation call. A nil Options means provider defaults.
type Options struct {
	// Temperature sets the sampling temperature when non-nil.
	Temperature *float32
	// BlockOnlyHighSeverity relaxes content-safety filtering to block only
	// high-severity categories. Used for letter composition, where job-ad
	// vocabulary (defense, naval, medical sectors) trips default thresholds.
	BlockOnlyHighSeverity bool
}

// Generator is the seam to the generative-text service: prompt in, text out.
// Implementations own retries and transport concerns.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, opts *Options) (string, error)
	Model() string
}

// Float32 returns a pointer to v, for Options literals.
func Float32(v float32) *float32 {
	return &v
}
