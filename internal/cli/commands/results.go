package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/leapstack-labs/nameof/pkg/core"
)

// toTransformOutput converts a run result to its JSON form.
func toTransformOutput(res *engine.RunResult) output.TransformOutput {
	out := output.TransformOutput{
		Files: make([]output.FileOutput, 0, len(res.Files)),
		Summary: output.SummaryOutput{
			Files:       len(res.Files) + len(res.Errors),
			Changed:     res.Changed(),
			Replaced:    res.Replaced(),
			Diagnostics: len(res.Diagnostics()),
			Errors:      len(res.Errors),
		},
	}
	for _, f := range res.Files {
		out.Files = append(out.Files, output.FileOutput{
			Path:        f.Path,
			Host:        f.Host,
			Replaced:    f.Replaced,
			Changed:     f.Changed,
			Diagnostics: f.Diagnostics,
		})
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, output.FileErrorOut{Path: e.Path, Error: e.Err.Error()})
	}
	return out
}

// runError returns the error a command exits with when the run had problems.
func runError(res *engine.RunResult) error {
	if !res.HasErrors() {
		return nil
	}
	diags := 0
	for _, d := range res.Diagnostics() {
		if d.Severity == core.SeverityError {
			diags++
		}
	}
	var parts []string
	if diags > 0 {
		parts = append(parts, plural(diags, "marker call", "marker calls")+" could not be rewritten")
	}
	if len(res.Errors) > 0 {
		parts = append(parts, plural(len(res.Errors), "file", "files")+" could not be processed")
	}
	return errors.New(strings.Join(parts, "; "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// reportProblems prints diagnostics and file errors to the error output.
func reportProblems(r *output.Renderer, res *engine.RunResult) {
	for _, e := range res.Errors {
		r.Error(e.Error())
	}
	for _, d := range res.Diagnostics() {
		r.Error(d.String())
	}
}

// renderDiagnostics prints diagnostics grouped by file to standard output.
func renderDiagnostics(r *output.Renderer, res *engine.RunResult) {
	diags := res.Diagnostics()
	if r.EffectiveMode() == output.ModeMarkdown {
		renderDiagnosticsMarkdown(r, res, diags)
		return
	}

	for _, e := range res.Errors {
		r.Printf("%s  %s  %s\n",
			r.Styles().Path.Render(e.Path),
			severityStyle(r, core.SeverityError),
			e.Err.Error())
	}

	file := ""
	for _, d := range diags {
		if d.File != file {
			if file != "" {
				r.Println("")
			}
			file = d.File
			r.Println(r.Styles().Path.Render(file))
		}
		loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
		if !d.Span.Start.IsValid() {
			loc = "-"
		}
		r.Printf("  %s  %s  %s  %s\n",
			r.Styles().Muted.Render(fmt.Sprintf("%-5s", loc)),
			severityStyle(r, d.Severity),
			r.Styles().Bold.Render(d.Code),
			d.Message,
		)
	}
	if len(diags) > 0 {
		r.Println("")
	}
	r.Println(summaryLine(res))
}

func renderDiagnosticsMarkdown(r *output.Renderer, res *engine.RunResult, diags []core.Diagnostic) {
	r.Println(output.FormatHeader(1, "nameof check"))
	r.Println("")

	if len(res.Errors) > 0 {
		r.Println(output.FormatHeader(2, "Files that could not be processed"))
		r.Println("")
		for _, e := range res.Errors {
			r.Println(output.FormatKeyValue(e.Path, e.Err.Error()))
		}
		r.Println("")
	}

	if len(diags) > 0 {
		r.Println(output.FormatHeader(2, "Diagnostics"))
		r.Println("")
		for _, d := range diags {
			loc := fmt.Sprintf("%s:%d:%d", d.File, d.Span.Start.Line, d.Span.Start.Column)
			r.Println(fmt.Sprintf("- `%s` **%s** %s (`%s`)", loc, d.Severity, d.Message, d.Code))
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println("")
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", len(res.Files)+len(res.Errors))))
	r.Println(output.FormatKeyValue("Changed", fmt.Sprintf("%d", res.Changed())))
	r.Println(output.FormatKeyValue("Replaced", fmt.Sprintf("%d", res.Replaced())))
	r.Println(output.FormatKeyValue("Diagnostics", fmt.Sprintf("%d", len(diags))))
}

func summaryLine(res *engine.RunResult) string {
	parts := []string{
		plural(len(res.Files)+len(res.Errors), "file", "files"),
		fmt.Sprintf("%d changed", res.Changed()),
		fmt.Sprintf("%d replaced", res.Replaced()),
	}
	if n := len(res.Diagnostics()); n > 0 {
		parts = append(parts, plural(n, "diagnostic", "diagnostics"))
	}
	if n := len(res.Errors); n > 0 {
		parts = append(parts, plural(n, "error", "errors"))
	}
	return "Summary: " + strings.Join(parts, ", ")
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
