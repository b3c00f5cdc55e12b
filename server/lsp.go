// Package server bridges LSP editor events to a torus engine. Documents are
// mirrored line by line into the engine's line store, a save triggers the
// batch recompile. The server is a thin adapter, all engine semantics live
// in the torus package.
package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/Morphological-Source-Code/torus"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "torus-lsp"

var log = commonlog.GetLogger(lspName)

// Server exposes the engine's recompile and inspection operations over the
// language server protocol. Line i of the mirrored document occupies line
// slot i, the last synchronized document wins.
type Server struct {
	engine *torus.Engine

	mu   sync.Mutex
	docs map[string][]string // URI → document lines

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New creates a new LSP server wrapping the given engine.
func New(engine *torus.Engine) *Server {
	s := &Server{
		engine:  engine,
		docs:    make(map[string][]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *Server) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("torus LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mirror(string(params.TextDocument.URI), params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// with full sync the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mirror(string(params.TextDocument.URI), whole.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	// mirror included text if present
	if params.Text != nil {
		s.mirror(uri, *params.Text)
	}

	// recompile all changed slots
	changed := s.engine.CompileAll()
	log.Infof("recompiled %d lines", changed)

	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	prev := len(s.docs[uri])
	delete(s.docs, uri)
	s.mu.Unlock()

	// blank the mirrored slots
	for i := 0; i < prev; i++ {
		s.engine.WriteLine(i, "")
	}

	// clear diagnostics for the closed document
	if ctx != nil {
		go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// --- Language features ---

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	// the language has a closed keyword table, offer it in full
	var items []protocol.CompletionItem
	for _, kw := range torus.Keywords() {
		kind := protocol.CompletionItemKindKeyword
		detail := fmt.Sprintf("opcode 0x%02X", byte(kw.Op))
		word := kw.Word
		items = append(items, protocol.CompletionItem{
			Label:      word,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &word,
		})
	}

	return items, nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	slot := int(params.Position.Line)
	line := s.engine.Line(slot)

	if line.Text == "" && len(line.Bytecode) == 0 {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**slot %d**\n\n", slot)
	fmt.Fprintf(&b, "hash: `%08x`\n\n", line.LastHash)
	fmt.Fprintf(&b, "bytecode: `%s`\n", torus.Disassemble(line.Bytecode))
	if residue := torus.Residue(line.Text); residue != "" {
		fmt.Fprintf(&b, "\nstray text stops tokenization: `%s`\n", residue)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}, nil
}

// --- Helpers ---

// mirror writes the document's lines into the engine's line slots, blanking
// slots a shrinking document no longer covers.
func (s *Server) mirror(uri string, text string) {
	lines := strings.Split(text, "\n")

	s.mu.Lock()
	prev := len(s.docs[uri])
	s.docs[uri] = lines
	s.mu.Unlock()

	for i, line := range lines {
		s.engine.WriteLine(i, line)
	}
	for i := len(lines); i < prev; i++ {
		s.engine.WriteLine(i, "")
	}
}

// publishDiagnostics reports a warning for every mirrored line whose
// tokenization stops at stray text.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri) {
	s.mu.Lock()
	lines := s.docs[string(uri)]
	s.mu.Unlock()

	diagnostics := diagnose(lines)

	if ctx != nil {
		go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		})
	}
}

// diagnose returns a warning diagnostic for every line with a non-empty
// tokenization residue.
func diagnose(lines []string) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for i, line := range lines {
		residue := torus.Residue(line)
		if residue == "" {
			continue
		}

		severity := protocol.DiagnosticSeverityWarning
		source := lspName
		col := len(line) - len(residue)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(i), Character: protocol.UInteger(col)},
				End:   protocol.Position{Line: protocol.UInteger(i), Character: protocol.UInteger(len(line))},
			},
			Severity: &severity,
			Source:   &source,
			Message:  fmt.Sprintf("stray text stops tokenization: %q", residue),
		})
	}

	return diagnostics
}

func boolPtr(b bool) *bool {
	return &b
}
