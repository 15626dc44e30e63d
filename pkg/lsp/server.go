// Package lsp serves the three views over the Language Server Protocol:
// document symbols from the outline, semantic tokens from the highlighting
// overlay, and on-type formatting from the indentation engine.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/treelens/pkg/engine"
	"github.com/Sumatoshi-tech/treelens/pkg/language"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

const serverName = "treelens"

// document is one open buffer: its text, line index, and the engine
// session bound to its parse tree.
type document struct {
	session  *engine.Session
	lines    *syntax.LineIndex
	content  []byte
	language string
}

// DocumentStore is a thread-safe store of open documents keyed by URI.
type DocumentStore struct {
	documents map[string]*document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*document),
	}
}

// Set stores a document for the given URI.
func (ds *DocumentStore) Set(uri string, doc *document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Server implements the treelens LSP server.
type Server struct {
	engine  *engine.Engine
	logger  *slog.Logger
	store   *DocumentStore
	handler protocol.Handler
	version string
}

// NewServer creates an LSP server backed by the given engine.
func NewServer(eng *engine.Engine, logger *slog.Logger, version string) *Server {
	srv := &Server{
		engine:  eng,
		logger:  logger,
		store:   NewDocumentStore(),
		version: version,
	}

	srv.handler = protocol.Handler{
		Initialize:                     srv.initialize,
		Initialized:                    srv.initialized,
		Shutdown:                       srv.shutdown,
		SetTrace:                       srv.setTrace,
		TextDocumentDidOpen:            srv.didOpen,
		TextDocumentDidChange:          srv.didChange,
		TextDocumentDidClose:           srv.didClose,
		TextDocumentDocumentSymbol:     srv.documentSymbol,
		TextDocumentSemanticTokensFull: srv.semanticTokensFull,
		TextDocumentOnTypeFormatting:   srv.onTypeFormatting,
	}

	return srv
}

// Run starts the LSP server on stdio. Blocks until the stream closes.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	if err := lspServer.RunStdio(); err != nil {
		return fmt.Errorf("lsp: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     tokenTypes(),
			TokenModifiers: []string{},
		},
		Full: true,
	}
	capabilities.DocumentOnTypeFormattingProvider = &protocol.DocumentOnTypeFormattingOptions{
		FirstTriggerCharacter: "\n",
		MoreTriggerCharacter:  []string{"}", ")", "]"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &srv.version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	content := []byte(params.TextDocument.Text)

	lang := strings.ToLower(params.TextDocument.LanguageID)
	if !language.Supported(lang) {
		detected, err := language.Detect(string(uri), content)
		if err != nil {
			srv.logger.Debug("document not handled", "uri", uri, "error", err)

			return nil
		}

		lang = detected
	}

	doc, err := srv.openDocument(lang, content)
	if err != nil {
		srv.logger.Warn("open failed", "uri", uri, "error", err)

		return nil
	}

	srv.store.Set(uri, doc)

	return nil
}

func (srv *Server) openDocument(lang string, content []byte) (*document, error) {
	grammar, err := language.Grammar(lang)
	if err != nil {
		return nil, err
	}

	tree, err := syntax.Parse(context.Background(), grammar, content)
	if err != nil {
		return nil, err
	}

	session, err := srv.engine.Open(lang, tree)
	if err != nil {
		return nil, err
	}

	return &document{
		session:  session,
		lines:    syntax.NewLineIndex(content),
		content:  content,
		language: lang,
	}, nil
}

func (srv *Server) didChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	doc, ok := srv.store.Get(uri)
	if !ok || len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync only; the last whole-document change wins.
	text, textOK := wholeChangeText(params.ContentChanges[len(params.ContentChanges)-1])
	if !textOK {
		return nil
	}

	content := []byte(text)

	grammar, err := language.Grammar(doc.language)
	if err != nil {
		return err
	}

	tree, err := syntax.Parse(context.Background(), grammar, content)
	if err != nil {
		srv.logger.Warn("reparse failed", "uri", uri, "error", err)

		return nil
	}

	if old, isSitter := doc.session.Tree().(*syntax.SitterTree); isSitter {
		old.Invalidate()
	}

	if err := doc.session.Replace(tree); err != nil {
		srv.logger.Warn("replace failed", "uri", uri, "error", err)

		return nil
	}

	doc.content = content
	doc.lines = syntax.NewLineIndex(content)

	return nil
}

// wholeChangeText extracts the text of a whole-document content change.
// The decoded shape varies across clients.
func wholeChangeText(change any) (string, bool) {
	switch ch := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return ch.Text, true
	case map[string]any:
		text, ok := ch["text"].(string)

		return text, ok
	default:
		return "", false
	}
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.Delete(params.TextDocument.URI)

	return nil
}
