package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsJSON = `[
  {"label": "Revenue", "stacks": [{"value": 100, "color": "#2ecc71"}]},
  {"label": "Costs", "stacks": [{"value": -30, "color": "#e74c3c"}]}
]`

const recordsCSV = "label,value\nQ1,10\nQ2,-4\n"

const breakdownJSON = `[
  {"label": "Sales", "stacks": [{"value": 10, "color": "#000"}],
   "breakdown": [
     {"label": "Online", "stacks": [{"value": 6, "color": "#000"}]},
     {"label": "Retail", "stacks": [{"value": 4, "color": "#000"}]}
   ]},
  {"label": "Returns", "stacks": [{"value": -3, "color": "#000"}]}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command with args and returns stdout and stderr.
// An explicit empty --redis keeps MINTWATERFALL_REDIS_URL out of the tests.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root, env := newRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if !hasFlag(args, "--redis") {
		args = append(args, "--redis=")
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	env.teardown(root)
	return stdout.String(), stderr.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

type frameJSON struct {
	Items []struct {
		Label           string  `json:"label"`
		CumulativeTotal float64 `json:"cumulativeTotal"`
		IsTotal         bool    `json:"isTotal"`
	} `json:"items"`
	Source   string `json:"source"`
	DataHash string `json:"dataHash"`
}

func TestProcessCommand(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "process", writeFile(t, "items.json", itemsJSON))
	require.NoError(t, err)

	var f frameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	require.Len(t, f.Items, 3)
	assert.Equal(t, "Revenue", f.Items[0].Label)
	assert.InDelta(t, 70, f.Items[1].CumulativeTotal, 1e-9)
	assert.True(t, f.Items[2].IsTotal)
	assert.Equal(t, "computed", f.Source)
	assert.NotEmpty(t, f.DataHash)
}

func TestProcessCommandItemsFromCSV(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "process", "--items", "--total=false", writeFile(t, "records.csv", recordsCSV))
	require.NoError(t, err)

	var items []struct {
		Label    string  `json:"label"`
		BarTotal float64 `json:"barTotal"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Q2", items[1].Label)
	assert.InDelta(t, -4, items[1].BarTotal, 1e-9)
}

func TestProcessCommandExpandAll(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "process", "--expand-all", "--total=false", writeFile(t, "tree.json", breakdownJSON))
	require.NoError(t, err)

	var f frameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	var labels []string
	for _, it := range f.Items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"Online", "Retail", "Returns"}, labels)
}

func TestStatsCommand(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "stats", writeFile(t, "items.json", itemsJSON))
	require.NoError(t, err)

	var a struct {
		Summary struct {
			Count int     `json:"count"`
			Net   float64 `json:"net"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 2, a.Summary.Count)
	assert.InDelta(t, 70, a.Summary.Net, 1e-9)
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "render", "--cols", "60", "--rows", "12", writeFile(t, "items.json", itemsJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "Costs")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 12)
}

func TestBatchCommand(t *testing.T) {
	t.Parallel()

	a := writeFile(t, "a.json", itemsJSON)
	b := writeFile(t, "b.csv", recordsCSV)
	out, _, err := run(t, "batch", "-j", "2", a, b)
	require.NoError(t, err)

	assert.Contains(t, out, "SOURCE")
	assert.Less(t, strings.Index(out, a), strings.Index(out, b), "rows keep argument order")
	assert.Contains(t, out, "70")
}

func TestBatchCommandFailsOnBadFile(t *testing.T) {
	t.Parallel()

	good := writeFile(t, "a.json", itemsJSON)
	bad := writeFile(t, "bad.json", `[{"label": "x"}]`)
	_, _, err := run(t, "batch", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestRedisStoreSharedAcrossRuns(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	path := writeFile(t, "items.json", itemsJSON)
	url := "redis://" + mr.Addr() + "/0"

	first, _, err := run(t, "process", "--redis", url, path)
	require.NoError(t, err)
	second, trace, err := run(t, "process", "--redis", url, "--trace", path)
	require.NoError(t, err)

	var f1, f2 frameJSON
	require.NoError(t, json.Unmarshal([]byte(first), &f1))
	require.NoError(t, json.Unmarshal([]byte(second), &f2))
	assert.Equal(t, "computed", f1.Source)
	assert.Equal(t, "store", f2.Source)
	assert.Equal(t, f1.DataHash, f2.DataHash)
	assert.Contains(t, trace, "get mintwaterfall:frame:")
	assert.Contains(t, trace, "validate")
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "items.json", itemsJSON)
	tests := map[string][]string{
		"missing file":  {"process", filepath.Join(t.TempDir(), "nope.json")},
		"unknown scale": {"process", "--scale", "log", path},
		"unknown sort":  {"process", "--breakdown", "--sort", "random", path},
		"bad format":    {"process", "--format", "xml", path},
		"no args":       {"process"},
		"bad redis url": {"process", "--redis", "http://%zz", path},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	got := buildVersion("1.2.3", "abc", "2024-01-01", "ci")
	for _, want := range []string{"1.2.3", "commit: abc", "built at: 2024-01-01", "built by: ci", "goos: " + runtime.GOOS} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, buildVersion("dev", "", "", ""), "commit:")
}

func TestEnvDefault(t *testing.T) {
	t.Setenv(envLogLevel, "debug")
	assert.Equal(t, "debug", envDefault(envLogLevel, "warn"))
	assert.Equal(t, "warn", envDefault("MINTWATERFALL_UNSET_FOR_TEST", "warn"))
}
