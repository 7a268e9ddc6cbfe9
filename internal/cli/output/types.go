package output

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/pkg/compiler"
	"github.com/unyt-org/datex-go/pkg/metadata"
	"github.com/unyt-org/datex-go/pkg/precompiler"
	"github.com/unyt-org/datex-go/pkg/token"
)

// Diagnostic is a compiler diagnostic with 1-based line and column.
type Diagnostic struct {
	Kind      string `json:"kind" yaml:"kind"`
	Message   string `json:"message" yaml:"message"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	EndColumn int    `json:"end_column" yaml:"end_column"`
	// Source is the text of the first line the diagnostic covers.
	Source string `json:"-" yaml:"-"`
	Length int    `json:"-" yaml:"-"`
}

// FileResult holds the diagnostics of one file.
type FileResult struct {
	Path        string       `json:"path" yaml:"path"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// CheckSummary totals a check.
type CheckSummary struct {
	Files  int    `json:"files" yaml:"files"`
	Errors int    `json:"errors" yaml:"errors"`
	RunID  string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// CheckOutput is the structured result of `datex check`.
type CheckOutput struct {
	Summary CheckSummary `json:"summary" yaml:"summary"`
	Files   []FileResult `json:"files" yaml:"files"`
}

// VariableInfo describes one declared variable.
type VariableInfo struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Shape      string `json:"shape" yaml:"shape"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Realm      int    `json:"realm" yaml:"realm"`
	CrossRealm bool   `json:"cross_realm" yaml:"cross_realm"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column     int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// InferOutput is the structured result of `datex infer`.
type InferOutput struct {
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Variables   []VariableInfo `json:"variables" yaml:"variables"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// RunInfo is one row of the check history.
type RunInfo struct {
	ID          string     `json:"id" yaml:"id"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Files       int        `json:"files" yaml:"files"`
	Errors      int        `json:"errors" yaml:"errors"`
}

// NewDiagnostics converts byte-span diagnostics to line/column form.
func NewDiagnostics(content string, diags []compiler.Diagnostic) []Diagnostic {
	idx := token.NewLineIndex(content)
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		start := idx.Position(d.Span.Start)
		end := idx.Position(d.Span.End)
		out = append(out, Diagnostic{
			Kind:      d.Kind,
			Message:   d.Message,
			Line:      start.Line + 1,
			Column:    start.Column + 1,
			EndLine:   end.Line + 1,
			EndColumn: end.Column + 1,
			Source:    lineText(content, d.Span.Start),
			Length:    max(d.Span.End-d.Span.Start, 1),
		})
	}
	return out
}

func lineText(content string, offset int) string {
	offset = min(max(offset, 0), len(content))
	start := offset
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return content[start:end]
}

var titleCaser = cases.Title(language.English)

// NewVariableInfos describes every variable in md, in declaration order.
// content locates declarations; it may be empty.
func NewVariableInfos(md *metadata.AstMetadata, content string) []VariableInfo {
	idx := token.NewLineIndex(content)
	vars := md.Variables()
	out := make([]VariableInfo, 0, len(vars))
	for i, v := range vars {
		info := VariableInfo{
			ID:         i,
			Name:       v.Name,
			Shape:      titleCaser.String(v.Shape.String()),
			Realm:      v.OriginalRealm,
			CrossRealm: v.IsCrossRealm,
		}
		if v.Type != nil {
			info.Type = v.Type.String()
		}
		if !v.Span.IsZero() && content != "" {
			pos := idx.Position(v.Span.Start)
			info.Line, info.Column = pos.Line+1, pos.Column+1
		}
		out = append(out, info)
	}
	return out
}

// NewInferOutput describes the result of compiling src. rich and err are
// the return values of compiler.Compile.
func NewInferOutput(src string, rich *precompiler.RichAst, err error) InferOutput {
	res := InferOutput{
		Variables:   []VariableInfo{},
		Diagnostics: NewDiagnostics(src, compiler.Diagnostics(err)),
	}
	if rich == nil {
		return res
	}
	if rich.AST != nil && rich.AST.Type != nil {
		res.Type = rich.AST.Type.String()
	}
	res.Variables = NewVariableInfos(rich.Metadata, src)
	return res
}

// NewRunInfo describes a recorded check run.
func NewRunInfo(run *state.CheckRun) RunInfo {
	return RunInfo{
		ID:          run.ID,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Files:       run.Files,
		Errors:      run.ErrorCount,
	}
}
