package codebase

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/metagen/metagen"
	"github.com/dhamidi/metagen/metagen/emit"
)

const lsName = "metagen"

const (
	CommandPreview  = "metagen.preview"
	CommandGenerate = "metagen.generate"
)

// LSPOptions carries the project settings the server cannot learn from
// the client.
type LSPOptions struct {
	SourceDirs []string
	Classpath  []string
	OutputDir  string
}

type LSPServer struct {
	codebase *Codebase
	options  LSPOptions
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string, options LSPOptions) *LSPServer {
	ls := &LSPServer{
		version: version,
		options: options,
	}

	ls.handler = protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		SetTrace:                ls.setTrace,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentDidSave:     ls.textDocumentDidSave,
		TextDocumentHover:       ls.textDocumentHover,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
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

	roots := []string{rootDir}
	if len(ls.options.SourceDirs) > 0 {
		roots = roots[:0]
		for _, dir := range ls.options.SourceDirs {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(rootDir, dir)
			}
			roots = append(roots, dir)
		}
	}
	if ls.options.OutputDir != "" && !filepath.IsAbs(ls.options.OutputDir) {
		ls.options.OutputDir = filepath.Join(rootDir, ls.options.OutputDir)
	}
	ls.codebase = New(roots...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandPreview, CommandGenerate},
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
	if err := ls.codebase.LoadClasspath(ls.options.Classpath); err != nil {
		log.Errorf("%s", err)
	}
	if _, err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("%s", err)
	}
	for _, path := range ls.codebase.Files() {
		ls.publishDiagnostics(ctx, path)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.codebase == nil {
		return nil
	}
	return ls.codebase.Close()
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
	ls.update(ctx, path, []byte(params.TextDocument.Text))
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
			ls.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(ctx, path, []byte(*params.Text))
		return nil
	}
	change, err := ls.codebase.ScanFile(path)
	if err != nil {
		return err
	}
	ls.publishChange(ctx, path, change)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, path string, content []byte) {
	if fi := ls.codebase.File(path); fi != nil && bytes.Equal(fi.Content, content) {
		return
	}
	ls.publishChange(ctx, path, ls.codebase.UpdateFile(path, content))
}

// publishChange sends diagnostics for the edited file and for every file
// whose beans the pass rediscovered.
func (ls *LSPServer) publishChange(ctx *glsp.Context, path string, change Change) {
	paths := map[string]bool{path: true}
	ls.publishDiagnostics(ctx, path)
	for _, bean := range change.Updated {
		if bean.Source != "" && !paths[bean.Source] {
			paths[bean.Source] = true
			ls.publishDiagnostics(ctx, bean.Source)
		}
	}
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, path string) {
	fi := ls.codebase.File(path)
	if fi == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: toProtocolDiagnostics(fi.Diagnostics),
	})
}

func toProtocolDiagnostics(diags []metagen.Diagnostic) []protocol.Diagnostic {
	source := lsName
	result := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == metagen.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		pos := toProtocolPosition(d.Position)
		result = append(result, protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func toProtocolPosition(p metagen.Position) protocol.Position {
	var pos protocol.Position
	if p.Line > 0 {
		pos.Line = protocol.UInteger(p.Line - 1)
	}
	if p.Column > 0 {
		pos.Character = protocol.UInteger(p.Column - 1)
	}
	return pos
}

// textDocumentHover describes the bean of the type declared on the
// hovered line.
func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	fi := ls.codebase.File(path)
	if fi == nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	for _, cls := range fi.Unit.Classes {
		if cls.Position.Line != line {
			continue
		}
		bean, ok := ls.codebase.Bean(cls.Name)
		if !ok {
			return nil, nil
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: describeBean(bean),
			},
		}, nil
	}
	return nil, nil
}

func describeBean(bean *metagen.Bean) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** generates `%s`", bean.SimpleName, bean.MetaName())
	if bean.Superclass != "" {
		fmt.Fprintf(&sb, " extending `%s`", bean.Superclass)
	}
	sb.WriteString("\n\n")
	if len(bean.Properties) == 0 {
		sb.WriteString("No properties.\n")
	}
	for _, p := range bean.Properties {
		fmt.Fprintf(&sb, "- `%s` %s `%s`", p.Name, p.Visibility, p.Type)
		if p.Deprecated {
			sb.WriteString(" (deprecated)")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	switch params.Command {
	case CommandPreview:
		if len(params.Arguments) == 0 {
			return nil, fmt.Errorf("%s needs a document URI", CommandPreview)
		}
		uri, ok := params.Arguments[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s needs a document URI", CommandPreview)
		}
		path, err := uriToPath(uri)
		if err != nil {
			return nil, err
		}
		return ls.preview(path)
	case CommandGenerate:
		return ls.generate()
	}
	return nil, fmt.Errorf("unknown command %s", params.Command)
}

// preview renders the metamodel sources of the beans declared in path.
func (ls *LSPServer) preview(path string) (string, error) {
	var sb strings.Builder
	for _, bean := range ls.codebase.BeansInFile(path) {
		source, err := emit.Source(bean)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.Write(source)
	}
	return sb.String(), nil
}

// generate writes every metamodel file and returns the written paths.
func (ls *LSPServer) generate() ([]string, error) {
	if ls.options.OutputDir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	out := &emit.Output{Dir: ls.options.OutputDir}
	written := []string{}
	for _, bean := range ls.codebase.Beans() {
		file, changed, err := out.Write(bean)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, file)
		}
	}
	log.Infof("generated %d files", len(written))
	return written, nil
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
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
