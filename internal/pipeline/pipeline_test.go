package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsailly/lettre-gen/internal/ai"
	"github.com/tsailly/lettre-gen/internal/compose"
	"github.com/tsailly/lettre-gen/internal/extract"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/profile"
	"github.com/tsailly/lettre-gen/internal/templates"

	"go.uber.org/zap"
)

// routingGenerator answers extraction and composition prompts differently, so
// one stub can back both collaborators.
type routingGenerator struct {
	extractResponse string
	extractErr      error
	composeResponse string
	composeErr      error
}

func (r *routingGenerator) GenerateContent(_ context.Context, prompt string, _ *ai.Options) (string, error) {
	if strings.Contains(prompt, "objet JSON unique") {
		if r.extractErr != nil {
			return "", r.extractErr
		}
		return r.extractResponse, nil
	}
	if r.composeErr != nil {
		return "", r.composeErr
	}
	return r.composeResponse, nil
}

func (r *routingGenerator) Model() string { return "stub-model" }

type stubTypesetter struct {
	err      error
	lastText string
	lastStem string
}

func (s *stubTypesetter) Compile(_ context.Context, text, outputDir, stem string) (string, error) {
	s.lastText = text
	s.lastStem = stem
	if s.err != nil {
		return "", s.err
	}
	return filepath.Join(outputDir, stem+".pdf"), nil
}

const extractJSON = `{
	"company": "Naval Group",
	"title": "Stage hydrodynamique",
	"required_skills": ["python"],
	"required_tools": ["abaqus"],
	"sector": "naval",
	"tone": "formal"
}`

func testProfile() *profile.Profile {
	return &profile.Profile{
		FullName:  "Jean Dupont",
		KeySkills: []string{"python", "abaqus"},
	}
}

func testStore(t *testing.T) *templates.Store {
	t.Helper()
	store, err := templates.NewStore(map[string]string{
		templates.Classique: "classique %%NOM_COMPLET%% %%CORPS_LETTRE%%",
		templates.Elegant:   "elegant %%NOM_COMPLET%% %%CORPS_LETTRE%%",
		templates.Moderne:   "moderne %%NOM_COMPLET%% %%CORPS_LETTRE%%",
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func testPipeline(t *testing.T, gen ai.Generator, opts Options) (*Pipeline, *stubTypesetter) {
	t.Helper()

	typesetter := &stubTypesetter{}
	deps := Deps{
		Extractor: extract.New(gen, 0, zap.NewNop()),
		Composer:  compose.New(gen, opts.Profile, compose.Config{}, zap.NewNop()),
		Store:     testStore(t),
		Compiler:  typesetter,
		Logger:    zap.NewNop(),
	}

	pipe, err := New(deps, opts)
	if err != nil {
		t.Fatal(err)
	}
	return pipe, typesetter
}

func testAd() *jobad.Ad {
	return &jobad.Ad{Name: "annonce_naval.txt", Text: "Offre de stage chez Naval Group."}
}

func TestProcessFullSequence(t *testing.T) {
	gen := &routingGenerator{extractResponse: extractJSON, composeResponse: "Corps de lettre."}
	opts := Options{Profile: testProfile(), OutputDir: t.TempDir()}
	pipe, typesetter := testPipeline(t, gen, opts)

	result := pipe.Process(context.Background(), testAd())

	if result.Failed() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Info.CompanyName() != "Naval Group" {
		t.Fatalf("unexpected info: %+v", result.Info)
	}
	if result.Match == nil || result.Match.Score != 55 {
		t.Fatalf("unexpected match: %+v", result.Match)
	}
	if result.Template != templates.Elegant {
		t.Fatalf("unexpected template for a formal naval ad: %q", result.Template)
	}
	if !strings.Contains(typesetter.lastText, "Corps de lettre.") {
		t.Fatalf("expected body in compiled document:\n%s", typesetter.lastText)
	}
	if !strings.HasSuffix(result.ArtifactPath, ".pdf") {
		t.Fatalf("unexpected artifact path: %q", result.ArtifactPath)
	}
}

func TestProcessDegradesWhenExtractionFails(t *testing.T) {
	gen := &routingGenerator{extractErr: errors.New("quota exceeded"), composeResponse: "Corps."}
	opts := Options{Profile: testProfile(), OutputDir: t.TempDir()}
	pipe, _ := testPipeline(t, gen, opts)

	result := pipe.Process(context.Background(), testAd())

	if result.ExtractErr == nil {
		t.Fatal("expected a recorded extraction error")
	}
	if result.Info != nil || result.Match != nil {
		t.Fatalf("expected no structured data, got info=%+v match=%+v", result.Info, result.Match)
	}
	if result.Template != templates.Classique {
		t.Fatalf("expected default template without job info, got %q", result.Template)
	}
	if result.Failed() {
		t.Fatal("extraction failure must not abort the letter")
	}
}

func TestProcessStopsWhenCompositionFails(t *testing.T) {
	gen := &routingGenerator{extractResponse: extractJSON, composeErr: errors.New("service unavailable")}
	opts := Options{Profile: testProfile(), OutputDir: t.TempDir()}
	pipe, typesetter := testPipeline(t, gen, opts)

	result := pipe.Process(context.Background(), testAd())

	if result.ComposeErr == nil {
		t.Fatal("expected a recorded composition error")
	}
	if !result.Failed() {
		t.Fatal("composition failure must fail the ad")
	}
	if typesetter.lastText != "" {
		t.Fatal("nothing should be compiled without a letter body")
	}
}

func TestProcessRecordsCompileFailure(t *testing.T) {
	gen := &routingGenerator{extractResponse: extractJSON, composeResponse: "Corps."}
	opts := Options{Profile: testProfile(), OutputDir: t.TempDir()}
	pipe, typesetter := testPipeline(t, gen, opts)
	typesetter.err = errors.New("pdflatex exited with status 1")

	result := pipe.Process(context.Background(), testAd())

	if result.CompileErr == nil {
		t.Fatal("expected a recorded compile error")
	}
	if !result.Failed() {
		t.Fatal("compile failure must fail the ad")
	}
	if result.Body == "" || result.Document == nil {
		t.Fatal("compile failure must keep the assembled document in the result")
	}
}

func TestProcessSkipCompileWritesTex(t *testing.T) {
	gen := &routingGenerator{extractResponse: extractJSON, composeResponse: "Corps."}
	outputDir := filepath.Join(t.TempDir(), "lettres")
	opts := Options{Profile: testProfile(), OutputDir: outputDir, SkipCompile: true}
	pipe, typesetter := testPipeline(t, gen, opts)

	result := pipe.Process(context.Background(), testAd())

	if result.Failed() {
		t.Fatalf("expected success, got %+v", result)
	}
	if !strings.HasSuffix(result.ArtifactPath, ".tex") {
		t.Fatalf("expected a .tex artifact, got %q", result.ArtifactPath)
	}
	if typesetter.lastText != "" {
		t.Fatal("compiler must not run when compilation is skipped")
	}

	data, err := os.ReadFile(result.ArtifactPath)
	if err != nil {
		t.Fatalf("reading written tex: %v", err)
	}
	if !strings.Contains(string(data), "Corps.") {
		t.Fatalf("unexpected tex content: %s", data)
	}
}

func TestProcessForcedTemplate(t *testing.T) {
	gen := &routingGenerator{extractResponse: extractJSON, composeResponse: "Corps."}
	opts := Options{Profile: testProfile(), OutputDir: t.TempDir(), ForceTemplate: templates.Moderne}
	pipe, typesetter := testPipeline(t, gen, opts)

	result := pipe.Process(context.Background(), testAd())

	if result.Template != templates.Moderne {
		t.Fatalf("expected forced template, got %q", result.Template)
	}
	if !strings.HasPrefix(typesetter.lastText, "moderne ") {
		t.Fatalf("expected the moderne template text, got:\n%s", typesetter.lastText)
	}
}

func TestNewRejectsUnknownForcedTemplate(t *testing.T) {
	gen := &routingGenerator{}
	deps := Deps{
		Extractor: extract.New(gen, 0, zap.NewNop()),
		Composer:  compose.New(gen, testProfile(), compose.Config{}, zap.NewNop()),
		Store:     testStore(t),
		Compiler:  &stubTypesetter{},
		Logger:    zap.NewNop(),
	}

	if _, err := New(deps, Options{Profile: testProfile(), ForceTemplate: "baroque"}); err == nil {
		t.Fatal("expected error for a template that is not loaded")
	}
}

func TestNewRequiresCompilerUnlessSkipped(t *testing.T) {
	gen := &routingGenerator{}
	deps := Deps{
		Extractor: extract.New(gen, 0, zap.NewNop()),
		Composer:  compose.New(gen, testProfile(), compose.Config{}, zap.NewNop()),
		Store:     testStore(t),
		Logger:    zap.NewNop(),
	}

	if _, err := New(deps, Options{Profile: testProfile()}); err == nil {
		t.Fatal("expected error without a compiler")
	}

	if _, err := New(deps, Options{Profile: testProfile(), SkipCompile: true}); err != nil {
		t.Fatalf("skip-compile must not require a compiler: %v", err)
	}
}
