package inventory

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// VarsLoader reads an import_vars file into a variable list.
type VarsLoader interface {
	LoadVars(path string) (VarList, error)
}

// FileLoader reads inventory documents and variable files from disk.
// Relative import_vars paths resolve against BaseDir.
type FileLoader struct {
	// BaseDir is the directory relative import_vars paths are resolved in.
	BaseDir string

	logger zerolog.Logger
}

// NewFileLoader creates a loader resolving relative paths against baseDir.
func NewFileLoader(baseDir string, logger zerolog.Logger) *FileLoader {
	return &FileLoader{
		BaseDir: baseDir,
		logger:  logger.With().Str("component", "loader").Logger(),
	}
}

// LoadDocument reads and decodes an inventory document.
func (l *FileLoader) LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewInputMissingError(path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("path", path).
		Int("declarations", len(doc)).
		Msg("Inventory document loaded")

	return doc, nil
}

// LoadVars implements VarsLoader.
func (l *FileLoader) LoadVars(path string) (VarList, error) {
	resolved := l.resolve(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, NewInputMissingError(resolved, err)
	}

	vars, err := ParseVars(data)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("path", resolved).
		Int("vars", len(vars)).
		Msg("Variables imported")

	return vars, nil
}

func (l *FileLoader) resolve(path string) string {
	if filepath.IsAbs(path) || l.BaseDir == "" {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}

// ParseDocument decodes an inventory document from YAML.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewMalformedError("failed to parse inventory document", err)
	}
	return doc, nil
}

// ParseVars decodes a variable document from YAML.
func ParseVars(data []byte) (VarList, error) {
	var vars VarList
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, NewMalformedError("failed to parse variable document", err)
	}
	return vars, nil
}
