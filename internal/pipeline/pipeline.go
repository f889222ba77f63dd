// Package pipeline runs the per-ad processing sequence: extract, score,
// select, compose, assemble, compile. Each step may degrade without aborting
// the run; only configuration problems stop a batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsailly/lettre-gen/internal/assemble"
	"github.com/tsailly/lettre-gen/internal/compose"
	"github.com/tsailly/lettre-gen/internal/extract"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/latex"
	"github.com/tsailly/lettre-gen/internal/match"
	"github.com/tsailly/lettre-gen/internal/profile"
	"github.com/tsailly/lettre-gen/internal/templates"

	"go.uber.org/zap"
)

// Typesetter is the typesetting collaborator boundary, implemented by
// latex.Compiler and by stubs in tests.
type Typesetter interface {
	Compile(ctx context.Context, text, outputDir, stem string) (string, error)
}

// Deps aggregates the collaborators shared across all ads in a run.
type Deps struct {
	Extractor *extract.Extractor
	Composer  *compose.Composer
	Store     *templates.Store
	Compiler  Typesetter
	Logger    *zap.Logger
}

// Options is the per-run, read-only configuration.
type Options struct {
	Profile      *profile.Profile
	OutputDir    string
	Instructions string
	// ForceTemplate bypasses the selector when it names a loaded template.
	ForceTemplate string
	// SkipCompile writes the assembled .tex without invoking pdflatex.
	SkipCompile bool
}

// Result is the outcome of processing one ad. Persistence of results is a
// collaborator's concern; the pipeline only produces the data.
type Result struct {
	Ad       *jobad.Ad
	Info     *jobad.Info
	Match    *match.Result
	Template string
	Body     string
	// Violations are prompt-contract breaches found in the generated body.
	Violations []compose.Violation
	Document   *assemble.Document
	// ArtifactPath is the compiled PDF, or the written .tex when
	// compilation was skipped.
	ArtifactPath string

	ExtractErr error
	ComposeErr error
	CompileErr error
}

// Failed reports whether the ad produced no usable artifact.
func (r *Result) Failed() bool {
	return r.ArtifactPath == ""
}

// Pipeline processes ads one at a time, start to finish, with no shared
// mutable state beyond the read-only profile and template store.
type Pipeline struct {
	deps Deps
	opts Options
}

// New validates the collaborators and builds a Pipeline.
func New(deps Deps, opts Options) (*Pipeline, error) {
	if deps.Extractor == nil || deps.Composer == nil || deps.Store == nil {
		return nil, errors.New("pipeline requires an extractor, a composer and a template store")
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}
	if opts.ForceTemplate != "" && !deps.Store.Has(opts.ForceTemplate) {
		return nil, fmt.Errorf("forced template %q is not loaded", opts.ForceTemplate)
	}
	if !opts.SkipCompile && deps.Compiler == nil {
		return nil, errors.New("pipeline requires a compiler unless compilation is skipped")
	}
	return &Pipeline{deps: deps, opts: opts}, nil
}

// Process runs the full sequence for one ad. It always returns a Result; the
// error fields record which steps degraded.
func (p *Pipeline) Process(ctx context.Context, ad *jobad.Ad) *Result {
	log := p.deps.Logger
	result := &Result{Ad: ad}

	info, err := p.deps.Extractor.Extract(ctx, ad)
	if err != nil {
		// Degraded mode: score and digest are lost, the composer still
		// works from the raw ad text.
		result.ExtractErr = err
		log.Warn("job info extraction failed, continuing without structured data",
			zap.String("ad", ad.Name),
			zap.Error(err),
		)
	}
	result.Info = info

	result.Match = match.Score(p.opts.Profile.KeySkills, info)
	if result.Match != nil {
		log.Info("compatibility score",
			zap.String("ad", ad.Name),
			zap.Int("score", result.Match.Score),
			zap.Strings("explanations", result.Match.Explanations),
		)
		if len(result.Match.MissingSkills) > 0 {
			log.Warn("required skills not covered by profile",
				zap.String("ad", ad.Name),
				zap.Strings("missing_skills", result.Match.MissingSkills),
			)
		}
	}

	result.Template = templates.Select(info)
	if p.opts.ForceTemplate != "" {
		result.Template = p.opts.ForceTemplate
	}
	log.Info("template selected",
		zap.String("ad", ad.Name),
		zap.String("template", result.Template),
	)

	body, err := p.deps.Composer.Compose(ctx, ad, info, p.opts.Instructions)
	if err != nil {
		// No letter body means nothing to assemble for this ad.
		result.ComposeErr = err
		log.Error("letter composition failed, skipping assembly",
			zap.String("ad", ad.Name),
			zap.Error(err),
		)
		return result
	}
	result.Body = body

	result.Violations = p.deps.Composer.Validate(body)
	for _, violation := range result.Violations {
		log.Warn("generated body violates a prompt constraint",
			zap.String("ad", ad.Name),
			zap.String("kind", violation.Kind),
			zap.String("details", violation.Details),
		)
	}

	result.Document = assemble.Build(assemble.Input{
		Template: p.deps.Store.Get(result.Template),
		Profile:  p.opts.Profile,
		Body:     body,
		Info:     info,
		Ad:       ad,
	})

	if p.opts.SkipCompile {
		texPath := filepath.Join(p.opts.OutputDir, result.Document.Stem+".tex")
		if err := writeTex(texPath, result.Document.Text); err != nil {
			result.CompileErr = err
			log.Error("writing assembled document failed",
				zap.String("ad", ad.Name),
				zap.Error(err),
			)
			return result
		}
		result.ArtifactPath = texPath
		log.Info("assembled document written",
			zap.String("ad", ad.Name),
			zap.String("path", texPath),
		)
		return result
	}

	pdfPath, err := p.deps.Compiler.Compile(ctx, result.Document.Text, p.opts.OutputDir, result.Document.Stem)
	if err != nil {
		result.CompileErr = err
		fields := []zap.Field{
			zap.String("ad", ad.Name),
			zap.Error(err),
		}
		var compileErr *latex.Error
		if errors.As(err, &compileErr) && compileErr.Log != "" {
			fields = append(fields, zap.String("latex_log", latex.DescribeLog(compileErr.Log)))
		}
		log.Error("latex compilation failed", fields...)
		return result
	}

	result.ArtifactPath = pdfPath
	log.Info("letter generated",
		zap.String("ad", ad.Name),
		zap.String("pdf", pdfPath),
	)

	return result
}

func writeTex(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
