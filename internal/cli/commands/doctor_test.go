package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/cli/testutil"
)

func checkByID(t *testing.T, out *DoctorOutput, id string) HealthCheck {
	t.Helper()
	for _, c := range out.HealthChecks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("health check %s not found", id)
	return HealthCheck{}
}

func TestDiagnoseHealthyProject(t *testing.T) {
	cc, _ := newTestContext(t, output.ModeText)
	cc.Cfg.ConfigFile = filepath.Join(cc.Cfg.ProjectRoot, "datex.yaml")
	writeFile(t, cc.Cfg.ConfigFile, "include: ['**/*.dx']\n")
	writeFile(t, filepath.Join(cc.Cfg.ProjectRoot, "main.dx"), "var a = 1;\na")

	out, err := diagnoseProject(context.Background(), cc)
	require.NoError(t, err)

	assert.Equal(t, 100, out.Score)
	assert.Empty(t, out.Recommendations)
	assert.Equal(t, 1, out.Summary.Files)
	assert.Equal(t, 1, out.Summary.Variables)
	for _, c := range out.HealthChecks {
		assert.Equal(t, statusPass, c.Status, c.ID)
	}
}

func TestDiagnoseBrokenProject(t *testing.T) {
	cc, _ := newTestContext(t, output.ModeText)
	writeFile(t, filepath.Join(cc.Cfg.ProjectRoot, "src", "main.dx"), "a + b")

	out, err := diagnoseProject(context.Background(), cc)
	require.NoError(t, err)

	assert.Equal(t, statusWarn, checkByID(t, out, "CF01").Status)
	compile := checkByID(t, out, "SR02")
	assert.Equal(t, statusError, compile.Status)
	assert.Equal(t, []string{filepath.Join("src", "main.dx") + ": 1 error(s)"}, compile.Details)
	assert.Equal(t, 60, out.Score)
	assert.Len(t, out.Recommendations, 2)
}

func TestDiagnoseEmptyProject(t *testing.T) {
	cc, _ := newTestContext(t, output.ModeText)

	out, err := diagnoseProject(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, statusError, checkByID(t, out, "SR01").Status)
	assert.Equal(t, 0, out.Summary.Files)
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 100, healthScore(nil))
	assert.Equal(t, 60, healthScore([]HealthCheck{{Status: statusError}, {Status: statusWarn}, {Status: statusPass}}))
	assert.Equal(t, 0, healthScore([]HealthCheck{{Status: statusError}, {Status: statusError}, {Status: statusError}, {Status: statusError}}))
}

func TestDoctorRendering(t *testing.T) {
	out := &DoctorOutput{
		Summary: ProjectSummary{Files: 2, Variables: 3, Errors: 1},
		HealthChecks: []HealthCheck{
			{ID: "SR02", Name: "Sources compile", Group: "sources", Status: statusError, IssueCount: 1, Details: []string{"a.dx: 1 error(s)"}},
		},
		Score:           70,
		Recommendations: []string{"Run 'datex check' to see every compile error"},
	}

	md := testutil.NewTestRenderer(output.ModeMarkdown, false)
	renderDoctorMarkdown(md.Renderer, out)
	testutil.AssertValidMarkdown(t, md.Output())
	testutil.AssertNoANSI(t, md.Output())
	assert.Contains(t, md.Output(), "### Sources")
	assert.Contains(t, md.Output(), "- **[ERROR]** SR02: Sources compile (1 issues)")
	assert.Contains(t, md.Output(), "**70/100**")

	text := testutil.NewTestRenderer(output.ModeText, false)
	renderDoctorText(text.Renderer, out)
	assert.Contains(t, text.Output(), "Health Score: 70/100")
	assert.Contains(t, text.Output(), "1. Run 'datex check'")
}
