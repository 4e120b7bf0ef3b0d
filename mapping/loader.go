package mapping

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Loader loads and caches mapping documents.
type Loader struct {
	// cache stores loaded documents by absolute path.
	cache map[string]*Document

	// Parser decodes document bytes. Defaults to ParseDocument.
	Parser func(data []byte) (*Document, error)

	logger *zap.Logger
}

// NewLoader creates a new document loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		cache:  make(map[string]*Document),
		Parser: ParseDocument,
		logger: logger,
	}
}

// Load loads a document from path, resolved against the working directory.
// CSV paths inside the document are made absolute relative to the
// document's directory. Returns the cached document if already loaded.
func (l *Loader) Load(path string) (*Document, error) {
	absPath, err := resolvePath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	if doc, ok := l.cache[absPath]; ok {
		l.logger.Debug("mapping cache hit", zap.String("path", absPath))
		return doc, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &LoadError{Path: absPath, Cause: err}
	}

	doc, err := l.Parser(data)
	if err != nil {
		return nil, &LoadError{Path: absPath, Cause: err}
	}

	doc.Path = absPath
	resolveSources(doc, filepath.Dir(absPath))

	l.cache[absPath] = doc
	l.logger.Debug("mapping loaded",
		zap.String("path", absPath),
		zap.Int("vertices", len(doc.Vertices)),
		zap.Int("edges", len(doc.Edges)),
	)

	return doc, nil
}

// LoadAll loads every path in order, stopping at the first failure.
func (l *Loader) LoadAll(paths []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))

	for _, p := range paths {
		doc, err := l.Load(p)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, abs)
	}

	return abs, nil
}

func resolveSources(doc *Document, dir string) {
	for i := range doc.Vertices {
		doc.Vertices[i].Path = resolveSource(doc.Vertices[i].Path, dir)
	}

	for i := range doc.Edges {
		doc.Edges[i].Path = resolveSource(doc.Edges[i].Path, dir)
	}
}

func resolveSource(path, dir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// Clear clears the document cache.
func (l *Loader) Clear() {
	l.cache = make(map[string]*Document)
}

// Cached returns all cached documents.
func (l *Loader) Cached() map[string]*Document {
	result := make(map[string]*Document, len(l.cache))
	maps.Copy(result, l.cache)

	return result
}
