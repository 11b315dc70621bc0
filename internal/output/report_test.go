package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/config"
)

func withFixedClock(t *testing.T) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = prev })
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(fixtureReport(t), "pdf")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "Try one of:")
	assert.Contains(t, err.Error(), "detailed-csv")
}

func TestGenerateReport_WritesTimestampedFile(t *testing.T) {
	withFixedClock(t)
	dir := filepath.Join(t.TempDir(), "reports")

	files, err := GenerateReport(fixtureReport(t), "json", dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "goal_plan_20260304_050607.json"), files[0])

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"House deposit"`)
}

func TestGenerateReport_All(t *testing.T) {
	withFixedClock(t)
	dir := t.TempDir()

	files, err := GenerateReport(fixtureReport(t), "ALL", dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, ".txt", filepath.Ext(files[0]))
	assert.Equal(t, ".csv", filepath.Ext(files[1]))
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestGenerateReport_Unsupported(t *testing.T) {
	files, err := GenerateReport(fixtureReport(t), "xml", t.TempDir())
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, files)
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.yaml")
	cfg := fixtureConfig()
	// the parser rejects dates in the past
	parser := config.NewInputParser()
	parser.Now = func() time.Time { return fixtureNow }

	require.NoError(t, SaveConfiguration(cfg, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Goals, 2)
	assert.Equal(t, "House deposit", loaded.Goals[0].Name)
	assert.True(t, cfg.Goals[0].TargetAmount.Equal(loaded.Goals[0].TargetAmount))
	pct, ok := loaded.Goals[0].Members[1].Share.Percent()
	require.True(t, ok)
	assert.Equal(t, "40", pct.String())
	assert.Equal(t, "bob@example.com", loaded.MemberDirectory["bob"].Email)
}
