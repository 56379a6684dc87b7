package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the pdf-weaver home directory.
	DefaultDirName = ".pdfweaver"

	// StateDBName is the embedded database holding drafts and usage state.
	StateDBName = "state.db"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the pdf-weaver home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.pdfweaver).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// StateDBPath returns the path to the embedded state database.
func (d *Dir) StateDBPath() string {
	return filepath.Join(d.path, StateDBName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// OutputDir returns the directory where converted markdown is written.
func (d *Dir) OutputDir() string {
	return filepath.Join(d.path, "output")
}

// OutputPath returns the markdown output path for a source file and run.
func (d *Dir) OutputPath(sourceName, runID string) string {
	base := sourceName[:len(sourceName)-len(filepath.Ext(sourceName))]
	return filepath.Join(d.OutputDir(), fmt.Sprintf("%s_%s.md", base, runID))
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.OutputDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
