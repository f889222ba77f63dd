// Package templates holds the letter template store and the rules choosing a
// template for a given job ad.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Template identifiers. Classique is the mandatory default; the store refuses
// to start without it.
const (
	Classique   = "classique"
	Elegant     = "elegant"
	Moderne     = "moderne"
	Minimaliste = "minimaliste"
)

// defaultFile is the on-disk name of the default template, kept for
// compatibility with existing template directories.
const defaultFile = "lettre_template.tex"

// Store is an immutable mapping from template identifier to template text.
// Loaded once at startup and shared read-only across the whole run.
type Store struct {
	templates map[string]string
}

// LoadDir reads every lettre_template*.tex file in dir. The file
// lettre_template.tex becomes the "classique" default; a file named
// lettre_template_<id>.tex registers template <id>. Fails when the default
// template is missing, so a misconfigured install dies at startup instead of
// producing empty letters.
func LoadDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory %q: %w", dir, err)
	}

	templates := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "lettre_template") || !strings.HasSuffix(name, ".tex") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading template %q: %w", name, err)
		}

		id := Classique
		if name != defaultFile {
			id = strings.TrimSuffix(strings.TrimPrefix(name, "lettre_template_"), ".tex")
		}
		templates[id] = string(data)
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("no letter templates found in %q", dir)
	}
	if _, ok := templates[Classique]; !ok {
		return nil, fmt.Errorf("default template %q is required in %q", defaultFile, dir)
	}

	return &Store{templates: templates}, nil
}

// NewStore builds a store from an in-memory mapping.
func NewStore(templates map[string]string) (*Store, error) {
	if _, ok := templates[Classique]; !ok {
		return nil, fmt.Errorf("default template %q is required", Classique)
	}
	copied := make(map[string]string, len(templates))
	for id, text := range templates {
		copied[id] = text
	}
	return &Store{templates: copied}, nil
}

// Get returns the template text for the given identifier, falling back to the
// default when the identifier is unknown.
func (s *Store) Get(id string) string {
	if text, ok := s.templates[id]; ok {
		return text
	}
	return s.templates[Classique]
}

// Has reports whether a template with the given identifier is loaded.
func (s *Store) Has(id string) bool {
	_, ok := s.templates[id]
	return ok
}

// IDs returns the loaded template identifiers, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
