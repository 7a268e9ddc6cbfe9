package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Expr        string
	Interactive bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the variables of a DATEX program",
		Long: `Compile a DATEX program and list the variables the precompiler
resolved: their shape, inferred type, realm and declaration site.

With --interactive the list opens in a browsable terminal view.`,
		Example: `  # Variable table
  datex inspect main.dx

  # Browse variables
  datex inspect main.dx -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "Program text to inspect")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Browse variables interactively")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	cc := NewCommandContext(cmd)

	src, err := readSource(cmd.InOrStdin(), args, opts.Expr)
	if err != nil {
		return err
	}
	// detailed mode keeps the metadata of programs with errors
	compileOpts := cc.CompileOptions()
	compileOpts.DetailedErrors = true
	rich, compileErr := compiler.Compile(src, compileOpts)
	res := output.NewInferOutput(src, rich, compileErr)

	switch {
	case cc.Renderer.IsStructured():
		return cc.Renderer.Structured(res.Variables)
	case opts.Interactive:
		p := tea.NewProgram(newInspectModel(res.Variables),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
			tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	if len(res.Variables) == 0 {
		cc.Renderer.Muted("No variables declared")
	} else {
		cc.Renderer.Table(variableHeader, variableRows(res.Variables))
	}
	for _, d := range res.Diagnostics {
		cc.Renderer.Diagnostic(d)
	}
	return nil
}

var (
	inspectTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	inspectDetailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inspectHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// inspectModel is the interactive variable browser.
type inspectModel struct {
	vars   []output.VariableInfo
	table  table.Model
	detail bool
}

func newInspectModel(vars []output.VariableInfo) inspectModel {
	columns := make([]table.Column, len(variableHeader))
	rows := variableRows(vars)
	for i, h := range variableHeader {
		width := len(h)
		for _, row := range rows {
			width = max(width, len(row[i]))
		}
		columns[i] = table.Column{Title: h, Width: width + 2}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(min(max(len(rows), 1), 15)+3),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return inspectModel{vars: vars, table: t}
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.detail = !m.detail
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selected returns the variable under the cursor.
func (m inspectModel) selected() (output.VariableInfo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.vars) {
		return output.VariableInfo{}, false
	}
	return m.vars[i], true
}

func (m inspectModel) View() string {
	var b strings.Builder
	b.WriteString(inspectTitleStyle.Render(fmt.Sprintf("Variables (%d)", len(m.vars))))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if v, ok := m.selected(); ok && m.detail {
		b.WriteString(inspectDetailStyle.Render(variableDetail(v)))
		b.WriteString("\n")
	}
	b.WriteString(inspectHelpStyle.Render("↑/↓ move • enter details • q quit"))
	b.WriteString("\n")
	return b.String()
}

func variableDetail(v output.VariableInfo) string {
	lines := []string{
		fmt.Sprintf("%s %s", v.Shape, v.Name),
		fmt.Sprintf("type:        %s", orDash(v.Type)),
		fmt.Sprintf("realm:       %d", v.Realm),
		fmt.Sprintf("cross realm: %t", v.CrossRealm),
	}
	if v.Line > 0 {
		lines = append(lines, fmt.Sprintf("declared:    line %d, column %d", v.Line, v.Column))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
