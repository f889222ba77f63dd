package templates

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"lettre_template.tex":         "default %%CORPS_LETTRE%%",
		"lettre_template_moderne.tex": "moderne %%CORPS_LETTRE%%",
		"notes.txt":                   "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	store, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := store.IDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 templates, got %v", ids)
	}

	if !store.Has(Classique) || !store.Has(Moderne) {
		t.Fatalf("expected classique and moderne to be loaded, got %v", ids)
	}

	if got := store.Get(Moderne); got != "moderne %%CORPS_LETTRE%%" {
		t.Fatalf("unexpected moderne template: %q", got)
	}
}

func TestLoadDirRequiresDefault(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "lettre_template_moderne.tex"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error when default template is missing")
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for a directory without templates")
	}
}

func TestStoreGetFallsBackToDefault(t *testing.T) {
	store, err := NewStore(map[string]string{Classique: "default"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.Get("unknown"); got != "default" {
		t.Fatalf("expected fallback to default, got %q", got)
	}
}

func TestNewStoreRequiresDefault(t *testing.T) {
	if _, err := NewStore(map[string]string{Moderne: "x"}); err == nil {
		t.Fatal("expected error when default template is missing")
	}
}
