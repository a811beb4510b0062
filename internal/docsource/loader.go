// Package docsource supplies parsed documents to the evidence index.
// It loads plain-text and JSON files from a directory and can fetch web
// pages as documents, respecting robots.txt and per-host rate limits.
package docsource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/veritaslabs/veritas/internal/model"
)

// Loader reads documents from a directory. Supported formats: .txt
// (one document per file) and .json (a single document or an array).
type Loader struct {
	docsPath string
	logger   *zap.Logger
}

// NewLoader creates a loader rooted at docsPath
func NewLoader(docsPath string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{docsPath: docsPath, logger: logger}
}

// LoadDocuments loads every supported file under the documents path,
// in lexical filename order for determinism.
func (l *Loader) LoadDocuments() ([]model.Document, error) {
	entries, err := os.ReadDir(l.docsPath)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("documents path does not exist", zap.String("path", l.docsPath))
			return nil, nil
		}
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var documents []model.Document
	for _, name := range names {
		path := filepath.Join(l.docsPath, name)

		var (
			docs    []model.Document
			loadErr error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt":
			docs, loadErr = l.loadTextFile(path)
		case ".json":
			docs, loadErr = l.loadJSONFile(path)
		default:
			continue
		}

		if loadErr != nil {
			l.logger.Warn("skipping unreadable document file",
				zap.String("path", path), zap.Error(loadErr))
			continue
		}
		documents = append(documents, docs...)
	}

	l.logger.Info("loaded documents",
		zap.Int("count", len(documents)),
		zap.String("path", l.docsPath))

	return documents, nil
}

func (l *Loader) loadTextFile(path string) ([]model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := strings.TrimSpace(string(raw))
	if content == "" {
		return nil, nil
	}

	name := filepath.Base(path)
	return []model.Document{{
		ID:      name,
		Title:   strings.TrimSuffix(name, filepath.Ext(name)),
		Content: content,
		Source:  path,
	}}, nil
}

// loadJSONFile accepts either a single document object or an array of
// documents. Missing ids are derived from the filename and position.
func (l *Loader) loadJSONFile(path string) ([]model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var docs []model.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		var single model.Document
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		docs = []model.Document{single}
	}

	name := filepath.Base(path)
	var out []model.Document
	for i, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("%s#%d", name, i)
		}
		if doc.Title == "" {
			doc.Title = doc.ID
		}
		if doc.Source == "" {
			doc.Source = path
		}
		out = append(out, doc)
	}

	return out, nil
}
