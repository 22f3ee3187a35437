package lsp

import (
	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/leapstack-labs/nameof/pkg/core"
)

// diagnosticSource labels every diagnostic the server publishes.
const diagnosticSource = "nameof"

// publishDiagnostics transforms the document in memory and publishes the
// marker calls that could not be rewritten.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := s.analyze(doc)
	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// analyze runs the host of the document and records the result for code actions.
func (s *Server) analyze(doc *Document) []Diagnostic {
	diagnostics := []Diagnostic{}

	eng := s.currentEngine()
	if eng == nil {
		s.forgetResult(doc.URI)
		return diagnostics
	}

	path := URIToPath(doc.URI)
	if _, ok := eng.HostFor(path); !ok {
		s.forgetResult(doc.URI)
		return diagnostics
	}

	res, err := eng.TransformSource(path, []byte(doc.Content))
	if err != nil {
		// The host could not parse the document; the editor's own tooling
		// reports syntax errors in detail.
		s.forgetResult(doc.URI)
		return append(diagnostics, Diagnostic{
			Severity: DiagnosticSeverityWarning,
			Code:     "parse-error",
			Source:   diagnosticSource,
			Message:  err.Error(),
		})
	}

	s.rememberResult(doc.URI, res)
	for _, d := range res.Diagnostics {
		diagnostics = append(diagnostics, toLSPDiagnostic(doc, d))
	}
	return diagnostics
}

// toLSPDiagnostic converts a host diagnostic into its protocol form.
func toLSPDiagnostic(doc *Document, d core.Diagnostic) Diagnostic {
	return Diagnostic{
		Range:    doc.SourceRange(d.Span),
		Severity: toLSPSeverity(d.Severity),
		Code:     d.Code,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}

func toLSPSeverity(sev core.Severity) DiagnosticSeverity {
	switch sev {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarning:
		return DiagnosticSeverityWarning
	case core.SeverityInfo:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityHint
	}
}

func (s *Server) rememberResult(uri string, res *engine.FileResult) {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()
	s.results[uri] = res
}

func (s *Server) forgetResult(uri string) {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()
	delete(s.results, uri)
}

func (s *Server) lastResult(uri string) *engine.FileResult {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()
	return s.results[uri]
}
