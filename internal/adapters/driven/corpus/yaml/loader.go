// Package yaml loads the curated corpus from a tree of YAML files.
package yaml

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// DefaultExtensions are the corpus file extensions matched by default.
var DefaultExtensions = []string{".yml", ".yaml"}

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// Loader walks a corpus directory and collects GitHub links.
type Loader struct {
	extensions map[string]struct{}
}

// NewLoader creates a loader matching the given file extensions.
// Extensions are compared case-insensitively; a missing leading dot is added.
// With no extensions, DefaultExtensions apply.
func NewLoader(extensions ...string) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Loader{extensions: exts}
}

// LoadKnownSet reads every matching file under rootDir, at any depth, and
// returns the set of repository keys for records from GitHub.
// Files that cannot be read or parsed are logged and skipped.
func (l *Loader) LoadKnownSet(ctx context.Context, rootDir string) (domain.KnownSet, error) {
	if _, err := os.Stat(rootDir); err != nil {
		logger.Warn("corpus directory %s unavailable: %v", rootDir, err)
		return domain.NewKnownSet(), nil
	}

	var links []string
	files := 0

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("%v", &domain.CorpusFileError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !l.matches(path) {
			return nil
		}

		records, err := ReadFile(path)
		if err != nil {
			logger.Warn("%v", &domain.CorpusFileError{Path: path, Err: err})
			return nil
		}

		files++
		for _, r := range records {
			if r.Contributes() {
				links = append(links, r.Link)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.KnownSet{}, err
		}
		logger.Warn("corpus walk stopped: %v", err)
	}

	known := domain.NewKnownSet(links...)
	logger.Debug("corpus: %d files, %d known repositories", files, known.Len())
	return known, nil
}

func (l *Loader) matches(path string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadFile parses one corpus file into its records.
// A document that is not a sequence yields no records. Sequence elements
// that do not decode as records are skipped.
func ReadFile(path string) ([]domain.KnownRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes corpus records from YAML data.
func Parse(data []byte) ([]domain.KnownRecord, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// An empty file decodes to a zero node.
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		logger.Debug("corpus document at line %d is not a sequence", root.Line)
		return nil, nil
	}

	records := make([]domain.KnownRecord, 0, len(root.Content))
	for _, elem := range root.Content {
		if elem.Kind != yaml.MappingNode {
			continue
		}
		var r domain.KnownRecord
		if err := elem.Decode(&r); err != nil {
			logger.Debug("skipping corpus record at line %d: %v", elem.Line, err)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
