package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// InferOptions holds options for the infer command.
type InferOptions struct {
	Expr string
}

// NewInferCommand creates the infer command.
func NewInferCommand() *cobra.Command {
	opts := &InferOptions{}
	cmd := &cobra.Command{
		Use:   "infer [file]",
		Short: "Show the inferred type of a DATEX program",
		Long: `Compile a DATEX program and print the type of its result together with
every variable it declares.

The program is read from a file, from --expr, or from stdin when the file
is "-".`,
		Example: `  # Infer a file
  datex infer main.dx

  # Infer an inline expression
  datex infer -e 'var x = 1; x + 2'

  # Machine-readable output
  datex infer main.dx -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "Program text to infer")

	return cmd
}

func runInfer(cmd *cobra.Command, args []string, opts *InferOptions) error {
	cc := NewCommandContext(cmd)

	src, err := readSource(cmd.InOrStdin(), args, opts.Expr)
	if err != nil {
		return err
	}

	rich, compileErr := compiler.Compile(src, cc.CompileOptions())
	res := output.NewInferOutput(src, rich, compileErr)

	if cc.Renderer.IsStructured() {
		if err := cc.Renderer.Structured(res); err != nil {
			return err
		}
	} else {
		renderInfer(cc.Renderer, res)
	}
	if len(res.Diagnostics) > 0 {
		return ErrCheckFailed
	}
	return nil
}

// readSource returns the program text named by the arguments.
func readSource(stdin io.Reader, args []string, expr string) (string, error) {
	switch {
	case expr != "" && len(args) > 0:
		return "", errors.New("cannot combine --expr with a file argument")
	case expr != "":
		return expr, nil
	case len(args) == 0:
		return "", errors.New("a file, '-' or --expr is required")
	case args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func renderInfer(r *output.Renderer, res output.InferOutput) {
	if res.Type != "" {
		r.Println(output.FormatKeyValue("Type", res.Type))
	}
	if len(res.Variables) > 0 {
		r.Println()
		r.Header(2, "Variables")
		r.Table(variableHeader, variableRows(res.Variables))
	}
	for _, d := range res.Diagnostics {
		r.Diagnostic(d)
	}
}

var variableHeader = []string{"ID", "Name", "Shape", "Type", "Realm", "Declared"}

func variableRows(vars []output.VariableInfo) [][]string {
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		realm := strconv.Itoa(v.Realm)
		if v.CrossRealm {
			realm += " (cross)"
		}
		declared := "-"
		if v.Line > 0 {
			declared = fmt.Sprintf("%d:%d", v.Line, v.Column)
		}
		rows = append(rows, []string{strconv.Itoa(v.ID), v.Name, v.Shape, orDash(v.Type), realm, declared})
	}
	return rows
}
