package lsp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/unyt-org/datex-go/pkg/compiler"
	"github.com/unyt-org/datex-go/pkg/precompiler"
)

// analysis is the last successful compilation of a document together with
// the content it was compiled from, so positions stay consistent.
type analysis struct {
	doc  *Document
	rich *precompiler.RichAst
}

// Server implements the Language Server Protocol for DATEX.
type Server struct {
	conn   *conn
	logger *slog.Logger

	documents *DocumentStore
	workspace *compiler.Workspace

	analysesMu sync.RWMutex
	analyses   map[string]analysis

	projectRoot string
	initialized bool

	stateMu  sync.RWMutex
	shutdown bool
	exited   bool
}

// NewServer creates a server that discards its logs.
func NewServer(reader io.Reader, writer io.Writer) *Server {
	return NewServerWithLogger(reader, writer, nil)
}

func NewServerWithLogger(reader io.Reader, writer io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		conn:      newConn(reader, writer),
		logger:    logger,
		documents: NewDocumentStore(),
		workspace: compiler.NewWorkspace(compiler.Options{DetailedErrors: true, Logger: logger}),
		analyses:  make(map[string]analysis),
	}
}

// Run processes messages until the client sends exit or closes the stream.
func (s *Server) Run() error {
	s.logger.Info("DATEX LSP server starting")

	for !s.hasExited() {
		msg, err := s.conn.read()
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			s.logger.Info("Client disconnected")
			return nil
		case err != nil:
			s.logger.Error("Dropping unreadable message", "error", err)
			continue
		}
		if err := s.dispatch(msg); err != nil {
			s.logger.Error("Handler failed", "method", msg.Method, "error", err)
		}
	}
	return nil
}

func (s *Server) hasExited() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.exited
}

func (s *Server) send(msg *JSONRPCMessage) {
	if err := s.conn.write(msg); err != nil {
		s.logger.Error("Writing message failed", "error", err)
	}
}

func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := &JSONRPCMessage{ID: id, Error: rpcErr}
	if rpcErr == nil {
		msg.Result, _ = json.Marshal(result)
	}
	s.send(msg)
}

func (s *Server) sendNotification(method string, params any) {
	msg := &JSONRPCMessage{Method: method}
	if params != nil {
		msg.Params, _ = json.Marshal(params)
	}
	s.send(msg)
}

type handlerFunc func(*Server, *JSONRPCMessage) error

var handlers = map[string]handlerFunc{
	"initialize": func(s *Server, msg *JSONRPCMessage) error {
		return reply(s, msg, s.initialize)
	},
	"initialized": func(s *Server, _ *JSONRPCMessage) error {
		s.initialized = true
		return nil
	},
	"shutdown": (*Server).handleShutdown,
	"exit":     (*Server).handleExit,
	"textDocument/didOpen": func(s *Server, msg *JSONRPCMessage) error {
		return notice(s, msg, s.didOpen)
	},
	"textDocument/didClose": func(s *Server, msg *JSONRPCMessage) error {
		return notice(s, msg, s.didClose)
	},
	"textDocument/didChange": func(s *Server, msg *JSONRPCMessage) error {
		return notice(s, msg, s.didChange)
	},
	"textDocument/didSave": func(s *Server, msg *JSONRPCMessage) error {
		return notice(s, msg, s.didSave)
	},
	"textDocument/completion": func(s *Server, msg *JSONRPCMessage) error {
		return reply(s, msg, func(p CompletionParams) *CompletionList {
			return &CompletionList{Items: s.getCompletions(p)}
		})
	},
	"textDocument/hover": func(s *Server, msg *JSONRPCMessage) error {
		return reply(s, msg, s.getHover)
	},
	"textDocument/definition": func(s *Server, msg *JSONRPCMessage) error {
		return reply(s, msg, s.getDefinition)
	},
	"textDocument/inlayHint": func(s *Server, msg *JSONRPCMessage) error {
		return reply(s, msg, s.getInlayHints)
	},
}

func (s *Server) dispatch(msg *JSONRPCMessage) error {
	s.logger.Debug("Received", "method", msg.Method)

	s.stateMu.RLock()
	shuttingDown := s.shutdown
	s.stateMu.RUnlock()

	if shuttingDown && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}

	handle, ok := handlers[msg.Method]
	if !ok {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeMethodNotFound, Message: "Method not found: " + msg.Method})
		}
		return nil
	}
	return handle(s, msg)
}

// decodeParams unmarshals request params, answering the request with an
// error when they are malformed.
func (s *Server) decodeParams(msg *JSONRPCMessage, v any) error {
	if err := json.Unmarshal(msg.Params, v); err != nil {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		}
		return err
	}
	return nil
}

// reply decodes P and responds with answer's result.
func reply[P, R any](s *Server, msg *JSONRPCMessage, answer func(P) R) error {
	var params P
	if err := s.decodeParams(msg, &params); err != nil {
		return err
	}
	s.sendResponse(msg.ID, answer(params), nil)
	return nil
}

// notice decodes the params of a notification and hands them to handle.
func notice[P any](s *Server, msg *JSONRPCMessage, handle func(P)) error {
	var params P
	if err := s.decodeParams(msg, &params); err != nil {
		return err
	}
	handle(params)
	return nil
}

// Lifecycle

func (s *Server) initialize(params InitializeParams) InitializeResult {
	s.projectRoot = URIToPath(params.RootURI)
	s.logger.Info("Initializing", "root", s.projectRoot)

	return InitializeResult{Capabilities: ServerCapabilities{
		TextDocumentSync: &TextDocumentSyncOptions{
			OpenClose: true,
			Change:    TextDocumentSyncKindFull,
			Save:      &SaveOptions{IncludeText: true},
		},
		CompletionProvider: &CompletionOptions{TriggerCharacters: []string{"/", "."}},
		HoverProvider:      true,
		DefinitionProvider: true,
		InlayHintProvider:  true,
	}}
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.stateMu.Lock()
	s.shutdown = true
	s.stateMu.Unlock()

	s.logger.Info("Shutdown requested")
	s.sendResponse(msg.ID, nil, nil)
	return nil
}

// handleExit stops Run. The caller decides the process exit code.
func (s *Server) handleExit(*JSONRPCMessage) error {
	s.stateMu.Lock()
	s.exited = true
	clean := s.shutdown
	s.stateMu.Unlock()

	s.logger.Info("Exiting", "clean", clean)
	return nil
}

// CleanShutdown reports whether the client sent shutdown before exit.
func (s *Server) CleanShutdown() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.shutdown
}

// Document sync

func (s *Server) didOpen(params DidOpenTextDocumentParams) {
	item := params.TextDocument
	s.documents.Open(item.URI, item.Text, item.Version)
	s.logger.Info("Opened", "uri", item.URI)
	s.publishDiagnostics(item.URI)
}

func (s *Server) didClose(params DidCloseTextDocumentParams) {
	uri := params.TextDocument.URI
	s.documents.Close(uri)
	s.workspace.Remove(uri)
	s.forget(uri)
	s.logger.Info("Closed", "uri", uri)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{URI: uri, Diagnostics: []Diagnostic{}})
}

// didChange applies the newest full-text change.
func (s *Server) didChange(params DidChangeTextDocumentParams) {
	uri := params.TextDocument.URI
	if n := len(params.ContentChanges); n > 0 {
		s.documents.Update(uri, params.ContentChanges[n-1].Text, params.TextDocument.Version)
	}
	s.publishDiagnostics(uri)
}

func (s *Server) didSave(params DidSaveTextDocumentParams) {
	uri := params.TextDocument.URI
	s.logger.Info("Saved", "path", URIToPath(uri))
	if params.Text == "" {
		return
	}
	if doc := s.documents.Get(uri); doc != nil && doc.Content != params.Text {
		s.documents.Update(uri, params.Text, doc.Version+1)
		s.publishDiagnostics(uri)
	}
}

// --- Analysis cache ---

func (s *Server) remember(uri string, doc *Document, file *compiler.File) {
	s.analysesMu.Lock()
	defer s.analysesMu.Unlock()
	s.analyses[uri] = analysis{doc: doc, rich: file.AST}
}

func (s *Server) forget(uri string) {
	s.analysesMu.Lock()
	defer s.analysesMu.Unlock()
	delete(s.analyses, uri)
}

// analysis returns the last successful compilation of uri. When there is
// none, the open document is returned with a nil RichAst.
func (s *Server) analysis(uri string) (*Document, *precompiler.RichAst) {
	s.analysesMu.RLock()
	a, ok := s.analyses[uri]
	s.analysesMu.RUnlock()
	if ok {
		return a.doc, a.rich
	}
	return s.documents.Get(uri), nil
}
