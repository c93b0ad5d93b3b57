// Package ebook invokes the external document converter (pandoc) to
// turn staged HTML and metadata into the final e-book file.
package ebook

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/bookbind/core"
)

// PandocGenerator runs the pandoc binary. No alternate converters, no
// retries: a non-zero exit is a conversion failure for that document.
type PandocGenerator struct {
	Binary     string // pandoc executable, e.g. "pandoc"
	Format     string // pandoc target format, e.g. "epub3"
	Stylesheet string // optional CSS reference passed to the converter
	OutputDir  string // shared output directory for final files
}

// Generate converts the staged content into OutputDir/<identity>.<ext>,
// overwriting any previous output for the same identity. The converter's
// stdout and stderr are captured for diagnostics.
func (g *PandocGenerator) Generate(ctx context.Context, contentPath, metadataPath, identity string) (string, error) {
	outPath := filepath.Join(g.OutputDir, identity+"."+extensionFor(g.Format))

	cmd := exec.CommandContext(ctx, g.Binary, g.args(contentPath, metadataPath, outPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return "", fmt.Errorf("%w: %s: %v: %s", core.ErrConversion, g.Binary, err, detail)
		}
		return "", fmt.Errorf("%w: %s: %v", core.ErrConversion, g.Binary, err)
	}

	return outPath, nil
}

// args builds the converter invocation.
func (g *PandocGenerator) args(contentPath, metadataPath, outPath string) []string {
	args := []string{
		"-f", "html",
		"-t", g.Format,
		contentPath,
		"--metadata-file", metadataPath,
		"--epub-title-page=false",
	}
	if g.Stylesheet != "" {
		args = append(args, "--css", g.Stylesheet)
	}
	return append(args, "-o", outPath)
}

// extensionFor maps a pandoc target format to a file extension.
func extensionFor(format string) string {
	switch format {
	case "epub", "epub2", "epub3":
		return "epub"
	case "latex":
		return "pdf"
	default:
		return format
	}
}
