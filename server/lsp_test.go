package server

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/assert"

	"github.com/Morphological-Source-Code/torus"
)

func testServer() (*Server, *torus.Engine) {
	engine := torus.NewEngine(torus.Config{Lines: 8, Population: 4})
	return New(engine), engine
}

func TestDidOpenMirrors(t *testing.T) {
	server, engine := testServer()

	err := server.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///a.torus",
			Text: "add add\nquine",
		},
	})
	assert.NoError(t, err)

	assert.Equal(t, "add add", engine.Line(0).Text)
	assert.Equal(t, "quine", engine.Line(1).Text)
	assert.Equal(t, "", engine.Line(2).Text)
}

func TestDidChangeShrinks(t *testing.T) {
	server, engine := testServer()

	server.mirror("file:///a.torus", "add\nadd\nadd")

	// a full sync change with fewer lines blanks the surplus slots
	err := server.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///a.torus"},
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "quine"},
		},
	})
	assert.NoError(t, err)

	assert.Equal(t, "quine", engine.Line(0).Text)
	assert.Equal(t, "", engine.Line(1).Text)
	assert.Equal(t, "", engine.Line(2).Text)
}

func TestDidSaveCompiles(t *testing.T) {
	server, engine := testServer()

	text := "add add\nquine"
	err := server.textDocumentDidSave(nil, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.torus"},
		Text:         &text,
	})
	assert.NoError(t, err)

	assert.Equal(t, []byte{0x01, 0x01}, engine.Line(0).Bytecode)
	assert.Equal(t, []byte{0x20}, engine.Line(1).Bytecode)
}

func TestDidCloseBlanks(t *testing.T) {
	server, engine := testServer()

	server.mirror("file:///a.torus", "add\nquine")

	err := server.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.torus"},
	})
	assert.NoError(t, err)

	assert.Equal(t, "", engine.Line(0).Text)
	assert.Equal(t, "", engine.Line(1).Text)
}

func TestCompletion(t *testing.T) {
	server, _ := testServer()

	result, err := server.textDocumentCompletion(nil, &protocol.CompletionParams{})
	assert.NoError(t, err)

	items := result.([]protocol.CompletionItem)
	assert.Len(t, items, 2)
	assert.Equal(t, "add", items[0].Label)
	assert.Equal(t, "opcode 0x01", *items[0].Detail)
	assert.Equal(t, "quine", items[1].Label)
	assert.Equal(t, "opcode 0x20", *items[1].Detail)
}

func TestHover(t *testing.T) {
	server, engine := testServer()

	engine.WriteLine(1, "add quinefoo")
	engine.CompileIfChanged(1)

	hover, err := server.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			Position: protocol.Position{Line: 1},
		},
	})
	assert.NoError(t, err)
	assert.NotNil(t, hover)

	content := hover.Contents.(protocol.MarkupContent)
	assert.Contains(t, content.Value, "slot 1")
	assert.Contains(t, content.Value, "add quine")

	// empty slots yield no hover
	hover, err = server.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			Position: protocol.Position{Line: 5},
		},
	})
	assert.NoError(t, err)
	assert.Nil(t, hover)
}

func TestDiagnose(t *testing.T) {
	diagnostics := diagnose([]string{"add quine", "add foo", ""})
	assert.Len(t, diagnostics, 1)

	// the warning covers the stray text
	d := diagnostics[0]
	assert.Equal(t, protocol.UInteger(1), d.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(4), d.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(7), d.Range.End.Character)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Contains(t, d.Message, `"foo"`)
}
