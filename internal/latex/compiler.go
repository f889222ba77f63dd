// Package latex shells out to pdflatex to turn assembled documents into PDFs.
package latex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// passTimeout bounds a single pdflatex invocation.
const passTimeout = 30 * time.Second

// Error is a compilation failure carrying the captured pdflatex output, so
// callers can surface the full diagnostic instead of a bare exit status.
type Error struct {
	Message string
	Log     string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Compiler writes .tex files and compiles them with pdflatex.
type Compiler struct {
	// KeepTex leaves the .tex source next to the PDF instead of removing it.
	KeepTex bool

	logger *zap.Logger
}

// New creates a Compiler.
func New(keepTex bool, logger *zap.Logger) *Compiler {
	return &Compiler{KeepTex: keepTex, logger: logger}
}

// Available reports whether pdflatex can be found in PATH.
func Available() bool {
	_, err := exec.LookPath("pdflatex")
	return err == nil
}

// Compile writes the document text as <stem>.tex in outputDir and runs
// pdflatex twice, so cross-references settle. On success it returns the PDF
// path and removes the auxiliary files. On failure the returned *Error holds
// the captured log.
func (c *Compiler) Compile(ctx context.Context, text, outputDir, stem string) (string, error) {
	if !Available() {
		return "", &Error{Message: "pdflatex not found in PATH, install a LaTeX distribution"}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", outputDir, err)
	}

	texPath := filepath.Join(outputDir, stem+".tex")
	if err := os.WriteFile(texPath, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("write %q: %w", texPath, err)
	}

	// Two passes: the templates use cross-references that only resolve on
	// the second run.
	for pass := 1; pass <= 2; pass++ {
		if log, err := c.runPass(ctx, texPath, outputDir); err != nil {
			return "", &Error{
				Message: fmt.Sprintf("pdflatex pass %d failed for %s", pass, filepath.Base(texPath)),
				Log:     log,
				Err:     err,
			}
		}
	}

	pdfPath := filepath.Join(outputDir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", &Error{Message: fmt.Sprintf("pdflatex produced no PDF at %s", pdfPath), Err: err}
	}

	c.cleanup(outputDir, stem)

	return pdfPath, nil
}

func (c *Compiler) runPass(ctx context.Context, texPath, outputDir string) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	cmd := exec.CommandContext(passCtx, "pdflatex",
		"-interaction=nonstopmode",
		"-output-directory", outputDir,
		texPath,
	)

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// cleanup removes the auxiliary files pdflatex leaves behind. The .tex source
// goes too unless KeepTex is set.
func (c *Compiler) cleanup(outputDir, stem string) {
	extensions := []string{".aux", ".log", ".out"}
	if !c.KeepTex {
		extensions = append(extensions, ".tex")
	}

	for _, ext := range extensions {
		path := filepath.Join(outputDir, stem+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && c.logger != nil {
			c.logger.Debug("removing auxiliary file failed",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}

// DescribeLog trims a pdflatex log to the lines around the first error marker
// for readable reporting.
func DescribeLog(log string) string {
	lines := strings.Split(log, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "!") {
			end := i + 5
			if end > len(lines) {
				end = len(lines)
			}
			return strings.Join(lines[i:end], "\n")
		}
	}
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return strings.Join(lines, "\n")
}
