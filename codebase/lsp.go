package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/typestripped/project"
)

const lsName = "typestripped"

// LSPServer publishes transpile failures as diagnostics. Documents are
// synchronized in full and transpiled again on every change.
type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	config, err := project.LoadFrom(rootDir)
	if err != nil {
		log.Warningf("%s, using defaults", err)
		config = project.Default(rootDir)
	}
	ls.codebase = New(config)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("%s", err)
	}
	for _, path := range ls.codebase.Paths() {
		if info := ls.codebase.GetFile(path); !info.OK() {
			ls.publish(ctx, info)
		}
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.publish(ctx, ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text)))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.publish(ctx, ls.codebase.UpdateFile(path, []byte(textChange.Text)))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if info := ls.codebase.GetFile(path); info != nil && !ls.codebase.Config().IsSource(path) {
		ls.codebase.RemoveFile(path)
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.publish(ctx, ls.codebase.UpdateFile(path, []byte(*params.Text)))
		return nil
	}
	info, err := ls.codebase.ScanFile(path)
	if err != nil {
		log.Errorf("%s", err)
		return nil
	}
	ls.publish(ctx, info)
	return nil
}

func (ls *LSPServer) publish(ctx *glsp.Context, info *FileInfo) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(info.Path),
		Diagnostics: Diagnostics(info),
	})
}

// Diagnostics converts the failures of info to LSP diagnostics. Failures
// that are not parse errors are reported at the start of the file.
func Diagnostics(info *FileInfo) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, perr := range info.Diagnostics() {
		start := lspPosition(info.Content, perr.Pos.Offset)
		end := start
		end.Character += protocol.UInteger(utf16Len(firstWord(perr.Excerpt)))
		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Source:   &source,
			Message:  perr.Error(),
		})
	}
	if info.Err != nil && len(diags) == len(info.Failures) {
		diags = append(diags, protocol.Diagnostic{
			Severity: &severity,
			Source:   &source,
			Message:  info.Err.Error(),
		})
	}
	return diags
}

// lspPosition converts a byte offset to a 0-based line and a character
// offset in UTF-16 code units.
func lspPosition(content []byte, offset int) protocol.Position {
	offset = min(offset, len(content))
	before := content[:offset]
	lineStart := strings.LastIndexByte(string(before), '\n') + 1
	return protocol.Position{
		Line:      protocol.UInteger(strings.Count(string(before), "\n")),
		Character: protocol.UInteger(utf16Len(string(before[lineStart:]))),
	}
}

// firstWord returns the excerpt up to its first space, at least one rune.
func firstWord(excerpt string) string {
	end := strings.IndexFunc(excerpt, isSpace)
	switch {
	case end < 0:
		return excerpt
	case end == 0:
		_, size := utf8.DecodeRuneInString(excerpt)
		return excerpt[:size]
	}
	return excerpt[:end]
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
