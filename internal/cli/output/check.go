package output

import (
	"fmt"
	"strings"
)

// CheckResult renders the outcome of a check. Files without diagnostics
// are only counted.
func (r *Renderer) CheckResult(res CheckOutput) error {
	if r.IsStructured() {
		return r.Structured(res)
	}
	markdown := r.EffectiveMode() == ModeMarkdown

	for _, f := range res.Files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		if markdown {
			r.Println(FormatHeader(2, f.Path))
			r.Println("")
			for _, d := range f.Diagnostics {
				r.Printf("- `%d:%d` **%s** %s\n", d.Line, d.Column, d.Kind, d.Message)
			}
			r.Println("")
			continue
		}

		r.Println(r.styles.FilePath.Render(f.Path))
		for _, d := range f.Diagnostics {
			r.Diagnostic(d)
		}
		r.Println("")
	}

	summary := fmt.Sprintf("%d %s checked, %d %s",
		res.Summary.Files, plural(res.Summary.Files, "file", "files"),
		res.Summary.Errors, plural(res.Summary.Errors, "error", "errors"))
	switch {
	case res.Summary.Errors == 0:
		r.Success(summary)
	case markdown:
		r.Println("**" + summary + "**")
	default:
		r.Println(r.styles.Error.Render("✗ " + summary))
	}
	return nil
}

// Diagnostic renders one diagnostic with the offending source line.
func (r *Renderer) Diagnostic(d Diagnostic) {
	loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
	r.Printf("  %s  %s  %s\n",
		r.styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
		r.styles.Kind.Render(d.Kind),
		d.Message,
	)
	if d.Source == "" {
		return
	}
	width := d.Length
	if d.EndLine != d.Line {
		width = len(d.Source) - (d.Column - 1)
	}
	r.Printf("         %s\n", r.styles.Muted.Render("│ ")+d.Source)
	r.Printf("         %s%s%s\n", r.styles.Muted.Render("│ "),
		strings.Repeat(" ", max(d.Column-1, 0)),
		r.styles.Caret.Render(strings.Repeat("^", max(width, 1))))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
