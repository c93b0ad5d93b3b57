// Package workspace manages per-document staging directories and the
// shared output directory. Artifact presence in a workspace is the sole
// cache signal for the pipeline: an existing raw-content artifact means
// the fetch stage is skipped entirely.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/bookbind/core"
)

// Artifact filenames within a document workspace.
const (
	rawFile          = "document-raw.html"
	contentFile      = "extracted.html"
	metadataFile     = "metadata.yaml"
	metadataDumpFile = "metadata-full.yaml"
)

// Root owns the workspace root directory and the shared output directory.
type Root struct {
	workspaceDir string
	outputDir    string
}

// NewRoot creates a Root over the given directories.
func NewRoot(workspaceDir, outputDir string) *Root {
	return &Root{workspaceDir: workspaceDir, outputDir: outputDir}
}

// OutputDir returns the shared output directory for final e-book files.
func (r *Root) OutputDir() string {
	return r.outputDir
}

// Ensure creates the per-document workspace directory and the shared
// output directory if absent. "Already exists" is success; any other
// creation failure is a storage error.
func (r *Root) Ensure(identity string) (*Workspace, error) {
	dir := filepath.Join(r.workspaceDir, identity)
	for _, d := range []string{dir, r.outputDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", core.ErrStorage, d, err)
		}
	}
	return &Workspace{dir: dir}, nil
}

// Workspace is a single document's staging directory.
type Workspace struct {
	dir string
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string { return w.dir }

// RawPath returns the raw fetched-content artifact path.
func (w *Workspace) RawPath() string { return filepath.Join(w.dir, rawFile) }

// ContentPath returns the extracted-content artifact path.
func (w *Workspace) ContentPath() string { return filepath.Join(w.dir, contentFile) }

// MetadataPath returns the converter-facing metadata artifact path.
func (w *Workspace) MetadataPath() string { return filepath.Join(w.dir, metadataFile) }

// MetadataDumpPath returns the full raw-metadata dump artifact path.
func (w *Workspace) MetadataDumpPath() string { return filepath.Join(w.dir, metadataDumpFile) }

// Exists reports whether the artifact at path is present.
func (w *Workspace) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write replaces the artifact at path with data.
func (w *Workspace) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", core.ErrStorage, path, err)
	}
	return nil
}

// Read returns the bytes of the artifact at path.
func (w *Workspace) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", core.ErrStorage, path, err)
	}
	return data, nil
}
