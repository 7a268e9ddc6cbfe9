package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/config"
	"github.com/unyt-org/datex-go/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new DATEX project",
		Long: `Initialize a new DATEX project with a configuration file and a source
directory.

This creates:
  - datex.yaml configuration file
  - src/ directory with a first .dx file
  - .gitignore excluding the .datex/ history directory

Use --example to create a project demonstrating declarations, functions
and nominal types.`,
		Example: `  # Initialize in current directory
  datex init

  # Initialize a new directory with examples
  datex init my-project --example

  # Force overwrite existing files
  datex init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := config.GetConfig(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example project")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	for _, f := range files {
		r.Success(f)
	}

	r.Println("")
	r.Success("DATEX project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  datex check      Compile every .dx file")
	r.Println("  datex infer      Show the types of a program")
	r.Println("  datex repl       Try expressions interactively")
	return nil
}
