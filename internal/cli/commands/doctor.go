package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// Health check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Analyze a DATEX project for setup problems.

The doctor command reports:
- Project summary (config file, source files, declared variables)
- Health checks grouped by category (Config, Sources, History)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Run health check
  datex doctor

  # Output as JSON
  datex doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			out, err := diagnoseProject(cmd.Context(), cc)
			if err != nil {
				return err
			}
			switch cc.Renderer.EffectiveMode() {
			case output.ModeJSON, output.ModeYAML:
				return cc.Renderer.Structured(out)
			case output.ModeMarkdown:
				renderDoctorMarkdown(cc.Renderer, out)
			default:
				renderDoctorText(cc.Renderer, out)
			}
			return nil
		},
	}
}

// DoctorOutput is the structured output of the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks" yaml:"health_checks"`
	Score           int            `json:"score" yaml:"score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	ConfigFile string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Files      int    `json:"files" yaml:"files"`
	Variables  int    `json:"variables" yaml:"variables"`
	Errors     int    `json:"errors" yaml:"errors"`
	Runs       int    `json:"runs" yaml:"runs"`
}

// HealthCheck is the result of one check.
type HealthCheck struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"`
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
	// Recommendation applies when the check did not pass.
	Recommendation string `json:"-" yaml:"-"`
}

func diagnoseProject(ctx context.Context, cc *CommandContext) (*DoctorOutput, error) {
	out := &DoctorOutput{Summary: ProjectSummary{ConfigFile: cc.Cfg.ConfigFile}}

	cfgCheck := HealthCheck{ID: "CF01", Name: "Configuration file found", Group: "config", Status: statusPass,
		Recommendation: "Run 'datex init' to create datex.yaml"}
	if cc.Cfg.ConfigFile == "" {
		cfgCheck.Status = statusWarn
		cfgCheck.IssueCount = 1
		cfgCheck.Details = []string{"no datex.yaml above " + cc.Cfg.ProjectRoot}
	}

	files, err := expandInputs(nil, cc.Cfg.ProjectRoot, cc.Cfg.Include)
	if err != nil {
		return nil, err
	}
	out.Summary.Files = len(files)
	filesCheck := HealthCheck{ID: "SR01", Name: "Source files found", Group: "sources", Status: statusPass,
		Recommendation: "Add .dx files or adjust the include patterns"}
	if len(files) == 0 {
		filesCheck.Status = statusError
		filesCheck.IssueCount = 1
		filesCheck.Details = []string{"include patterns match nothing: " + strings.Join(cc.Cfg.Include, ", ")}
	}

	compileCheck := HealthCheck{ID: "SR02", Name: "Sources compile", Group: "sources", Status: statusPass,
		Recommendation: "Run 'datex check' to see every compile error"}
	realmCheck := HealthCheck{ID: "SR03", Name: "Variables stay in their realm", Group: "sources", Status: statusPass,
		Recommendation: "Pass values across realms explicitly instead of capturing variables"}

	ws := compiler.NewWorkspace(cc.CompileOptions())
	if err := ws.LoadAll(ctx, files); err != nil {
		return nil, err
	}
	for _, f := range ws.Files() {
		rel, relErr := filepath.Rel(cc.Cfg.ProjectRoot, f.Path)
		if relErr != nil {
			rel = f.Path
		}
		if n := len(f.Diagnostics); n > 0 {
			compileCheck.IssueCount += n
			compileCheck.Details = append(compileCheck.Details, fmt.Sprintf("%s: %d error(s)", rel, n))
		}
		if f.AST == nil {
			continue
		}
		for _, v := range f.AST.Metadata.Variables() {
			out.Summary.Variables++
			if v.IsCrossRealm {
				realmCheck.IssueCount++
				realmCheck.Details = append(realmCheck.Details, fmt.Sprintf("%s: %s", rel, v.Name))
			}
		}
	}
	out.Summary.Errors = ws.ErrorCount()
	if compileCheck.IssueCount > 0 {
		compileCheck.Status = statusError
	}
	if realmCheck.IssueCount > 0 {
		realmCheck.Status = statusWarn
	}

	historyCheck := HealthCheck{ID: "HS01", Name: "History database readable", Group: "history", Status: statusPass,
		Recommendation: "Check the state_path setting and directory permissions"}
	if runs, err := countRuns(ctx, cc); err != nil {
		historyCheck.Status = statusError
		historyCheck.IssueCount = 1
		historyCheck.Details = []string{err.Error()}
	} else {
		out.Summary.Runs = runs
	}

	out.HealthChecks = []HealthCheck{cfgCheck, historyCheck, filesCheck, compileCheck, realmCheck}
	out.Score = healthScore(out.HealthChecks)
	out.Recommendations = []string{}
	for _, check := range out.HealthChecks {
		if check.Status != statusPass {
			out.Recommendations = append(out.Recommendations, check.Recommendation)
		}
	}
	return out, nil
}

func countRuns(ctx context.Context, cc *CommandContext) (int, error) {
	store, err := cc.OpenStore()
	if err != nil {
		return 0, err
	}
	defer func() { _ = store.Close() }()

	if v, err := store.MigrationVersion(); err != nil || v == 0 {
		return 0, errors.New("history database is not migrated")
	}
	runs, err := store.ListRuns(ctx, 1000)
	if err != nil {
		return 0, err
	}
	return len(runs), nil
}

// healthScore deducts 30 points per failed check and 10 per warning.
func healthScore(checks []HealthCheck) int {
	score := 100
	for _, c := range checks {
		switch c.Status {
		case statusError:
			score -= 30
		case statusWarn:
			score -= 10
		}
	}
	return max(score, 0)
}

var groupCaser = cases.Title(language.English)

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("DATEX Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	if out.Summary.ConfigFile != "" {
		r.Printf("   Config: %s\n", out.Summary.ConfigFile)
	}
	r.Printf("   Files: %d | Variables: %d | Errors: %d | Recorded runs: %d\n",
		out.Summary.Files, out.Summary.Variables, out.Summary.Errors, out.Summary.Runs)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + groupCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusError:
			icon = styles.Error.Render("✗")
		}
		line := fmt.Sprintf("%s %s: %s", icon, check.ID, check.Name)
		if check.IssueCount > 0 {
			line += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + line)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# DATEX Project Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	if out.Summary.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.Summary.ConfigFile))
	}
	r.Println(output.FormatKeyValue("Files", fmt.Sprint(out.Summary.Files)))
	r.Println(output.FormatKeyValue("Variables", fmt.Sprint(out.Summary.Variables)))
	r.Println(output.FormatKeyValue("Errors", fmt.Sprint(out.Summary.Errors)))
	r.Println(output.FormatKeyValue("Recorded runs", fmt.Sprint(out.Summary.Runs)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + groupCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.ID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}
