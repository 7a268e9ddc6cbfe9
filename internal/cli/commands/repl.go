package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

const (
	replPrompt         = "datex> "
	replContinuePrompt = "  ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive DATEX session",
		Long: `Start an interactive session that compiles each input and prints the
type of its result. Declarations stay visible to later inputs.

End a line with a backslash to continue the input on the next line.`,
		Example: `  datex repl`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd)
		},
	}
}

func runRepl(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	r := newRepl(cc)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cc.Cfg.StatePath), "repl_history"),
		AutoComplete:    r.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Println("DATEX REPL")
	cc.Renderer.Muted("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if cont, ok := strings.CutSuffix(line, "\\"); ok {
			buf.WriteString(cont)
			buf.WriteString("\n")
			rl.SetPrompt(replContinuePrompt)
			continue
		}
		buf.WriteString(line)
		input := buf.String()
		buf.Reset()
		rl.SetPrompt(replPrompt)

		if r.handle(input) {
			return nil
		}
	}
}

// repl evaluates inputs against one compiler session.
type repl struct {
	cc      *CommandContext
	session *compiler.Session
}

func newRepl(cc *CommandContext) *repl {
	return &repl{cc: cc, session: compiler.NewSession(cc.CompileOptions())}
}

// handle runs one input and reports whether the REPL should exit.
func (r *repl) handle(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.HasPrefix(input, ".") {
		return r.dotCommand(input)
	}
	r.eval(input)
	return false
}

func (r *repl) eval(input string) {
	rich, err := r.session.Eval(input)
	if err != nil {
		for _, d := range output.NewDiagnostics(input, compiler.Diagnostics(err)) {
			r.cc.Renderer.Diagnostic(d)
		}
		return
	}
	if rich.AST != nil && rich.AST.Type != nil {
		r.cc.Renderer.Println(r.cc.Renderer.Styles().Type.Render(rich.AST.Type.String()))
	}
}

func (r *repl) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		r.cc.Renderer.Println(replHelp)
	case ".vars":
		r.printVariables()
	case ".reset":
		r.session = compiler.NewSession(r.cc.CompileOptions())
		r.cc.Renderer.Muted("Session cleared")
	default:
		r.cc.Renderer.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (r *repl) printVariables() {
	names := r.session.Names()
	if len(names) == 0 {
		r.cc.Renderer.Muted("No variables declared")
		return
	}
	vars := r.session.Variables()
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	rows := make([][]string, 0, len(sorted))
	for _, name := range sorted {
		v := vars[names[name]]
		typ := "-"
		if v.Type != nil {
			typ = v.Type.String()
		}
		rows = append(rows, []string{name, v.Shape.String(), typ})
	}
	r.cc.Renderer.Table([]string{"Name", "Shape", "Type"}, rows)
}

func (r *repl) completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItemDynamic(func(string) []string {
			names := r.session.Names()
			out := make([]string, 0, len(names))
			for name := range names {
				out = append(out, name)
			}
			sort.Strings(out)
			return out
		}),
		readline.PcItem(".help"),
		readline.PcItem(".vars"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

const replHelp = `
Commands:
  .help           Show this help message
  .vars           List the variables visible at the top level
  .reset          Start a fresh session
  .quit / .exit   Exit the REPL

Tips:
  - End a line with \ to continue on the next line
  - Use arrow keys to navigate history
  - Tab completion works for declared variables`
