package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

//go:embed data/*
var embeddedTemplates embed.FS

const (
	// SBatch is the default SLURM job script template.
	SBatch = "sbatch_template.sh"
	// XanthosDrought is the default Xanthos configuration template, set up
	// for Thornthwaite PET with the abcd runoff model and drought statistics.
	XanthosDrought = "xanthos_thorn_abcd_drought_template.ini"
)

// ErrTemplateNotFound is returned when a named embedded template is missing.
var ErrTemplateNotFound = errors.New("templates: template not found")

// FS returns the bundled template files.
func FS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "data")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Names lists the bundled templates.
func Names() []string {
	entries, err := fs.ReadDir(FS(), ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// Default returns the contents of a bundled template.
func Default(name string) (string, error) {
	data, err := fs.ReadFile(FS(), name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, name, strings.Join(Names(), ", "))
		}
		return "", fmt.Errorf("templates: read %s: %w", name, err)
	}
	return string(data), nil
}

// Load returns the template at path, or the bundled template named fallback
// when path is empty. Read errors for caller-supplied paths are returned
// wrapped but otherwise unchanged.
func Load(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return Default(fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("templates: read %s: %w", path, err)
	}
	return string(data), nil
}
