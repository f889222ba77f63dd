package jobad

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMissingInput is returned when neither an ad file nor inline text is supplied.
var ErrMissingInput = errors.New("no job ad provided: supply a file or inline text")

// Ad is the raw text of a single job posting plus the identity used for
// deriving output file names.
type Ad struct {
	// Name is the caller-facing identity, usually the source file name.
	Name string
	// Path is the source file, empty for inline text.
	Path string
	// Text is the raw posting content.
	Text string
}

// FromFile reads a job ad from a text file.
func FromFile(path string) (*Ad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job ad %q: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("job ad file %q is empty", path)
	}

	return &Ad{
		Name: filepath.Base(path),
		Path: path,
		Text: text,
	}, nil
}

// FromText wraps inline ad text with a timestamp-qualified identity so
// concurrent submissions never collide on output paths.
func FromText(text string) (*Ad, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingInput
	}

	return &Ad{
		Name: fmt.Sprintf("annonce_%s.txt", time.Now().Format("20060102_150405")),
		Text: text,
	}, nil
}

// LoadDir reads every .txt file in the given directory, sorted by name.
// Empty or unreadable files are logged and skipped, so one bad ad never
// costs the rest of the batch.
func LoadDir(dir string, logger *zap.Logger) ([]*Ad, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %q: %w", dir, err)
	}

	var ads []*Ad
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		ad, err := FromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("skipping unusable job ad file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		ads = append(ads, ad)
	}

	sort.Slice(ads, func(i, j int) bool { return ads[i].Name < ads[j].Name })

	return ads, nil
}

// Stem returns the ad identity without its extension.
func (a *Ad) Stem() string {
	if a == nil {
		return ""
	}
	return strings.TrimSuffix(a.Name, filepath.Ext(a.Name))
}
