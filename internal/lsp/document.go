package lsp

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/unyt-org/datex-go/pkg/token"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.dx)
	Content string // Full document content
	Version int    // Version number, incremented on each change

	index *token.LineIndex
}

func newDocument(uri, content string, version int) *Document {
	return &Document{URI: uri, Content: content, Version: version, index: token.NewLineIndex(content)}
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = newDocument(uri, content, version)
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces the content of an open document. Unknown URIs are ignored.
func (s *DocumentStore) Update(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; ok {
		s.documents[uri] = newDocument(uri, content, version)
	}
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// PositionToOffset converts an LSP position (UTF-16 columns) to a byte offset.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil {
		return 0
	}
	return d.index.Offset(int(pos.Line), int(pos.Character))
}

// OffsetToPosition converts a byte offset to an LSP position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil {
		return Position{}
	}
	p := d.index.Position(offset)
	return Position{Line: uint32(p.Line), Character: uint32(p.Column)}
}

// SpanToRange converts a byte span to an LSP range.
func (d *Document) SpanToRange(span token.Span) Range {
	return Range{Start: d.OffsetToPosition(span.Start), End: d.OffsetToPosition(span.End)}
}

// GetWordAtPosition returns the identifier at the given position and its range.
func (d *Document) GetWordAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(d.Content[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}

	end := offset
	for end < len(d.Content) {
		r, size := utf8.DecodeRuneInString(d.Content[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}

	if start == end {
		return "", Range{Start: pos, End: pos}
	}
	return d.Content[start:end], Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// WordBefore returns the identifier prefix ending at pos.
func (d *Document) WordBefore(pos Position) string {
	offset := d.PositionToOffset(pos)
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(d.Content[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	return d.Content[start:offset]
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	const prefix = "file://"
	if strings.HasPrefix(uri, prefix) {
		return uri[len(prefix):]
	}
	return uri
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
