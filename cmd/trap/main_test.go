package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/rainwater/internal/config"
	"github.com/R3E-Network/rainwater/internal/logging"
	"github.com/R3E-Network/rainwater/internal/metrics"
	rainwatersvc "github.com/R3E-Network/rainwater/services/rainwater"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, stderr = runCLI("frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Unknown command: frobnicate")
}

func TestCalc(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"positional", []string{"calc", "0", "1", "0", "2", "1", "0", "1", "3", "2", "1", "2", "1"}, "6\n"},
		{"heights flag", []string{"calc", "-heights", "4,2,3"}, "1\n"},
		{"bracketed", []string{"calc", "-heights", "[3, 0, 0, 0, 3]"}, "9\n"},
		{"two-pointer", []string{"calc", "-method", "two-pointer", "3", "0", "0", "0", "3"}, "9\n"},
		{"empty", []string{"calc"}, "0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args...)
			require.Equal(t, exitOK, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestCalc_InvalidInput(t *testing.T) {
	code, _, stderr := runCLI("calc", "1", "x", "2")
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "invalid height")

	code, _, stderr = runCLI("calc", "-heights", "1,-2,3")
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "negative height")

	for _, args := range [][]string{
		{"calc", "-1", "2"},
		{"calc", "-method", "two-pointer", "-1", "2"},
		{"calc", "-3,4"},
		{"profile", "-1"},
		{"render", "-no-color", "-2", "5"},
	} {
		code, _, stderr = runCLI(args...)
		assert.Equal(t, exitInput, code, "%v", args)
		assert.Contains(t, stderr, "negative height", "%v", args)
	}

	code, _, stderr = runCLI("calc", "-heights", "9223372036854775807,0,0,9223372036854775807")
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "overflows")

	code, _, _ = runCLI("calc", "-method", "bogus", "1")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI("calc", "-nope")
	assert.Equal(t, exitUsage, code)
}

func TestCalc_Server(t *testing.T) {
	svc, err := rainwatersvc.New(rainwatersvc.Config{
		Settings: config.Default(),
		Logger:   logging.NewNop(),
		Metrics:  metrics.New(false),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(svc.Router())
	defer ts.Close()

	code, stdout, stderr := runCLI("calc", "-server", ts.URL, "-heights", "4,2,0,3,2,5")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "9\n", stdout)
}

func TestCalc_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	code, _, stderr := runCLI("calc", "-server", url, "-timeout", "2s", "1", "0", "1")
	assert.Equal(t, exitRemote, code)
	assert.Contains(t, stderr, "remote computation failed")
}

func TestProfile(t *testing.T) {
	code, stdout, _ := runCLI("profile", "-heights", "4,2,3")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "left_highest")
	assert.Contains(t, stdout, "total         1")
}

func TestProfile_JSON(t *testing.T) {
	code, stdout, _ := runCLI("profile", "-json", "3", "0", "1", "0", "3")
	require.Equal(t, exitOK, code)

	var resp rainwatersvc.ProfileResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 8, resp.Total)
	assert.Equal(t, []int{0, 3, 2, 3, 0}, resp.Water)
	require.Len(t, resp.Basins, 1)
	assert.Equal(t, 8, resp.Basins[0].Volume)
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		rows    int
		color   bool
		heights []string
	}{
		{"plain", []string{"1", "2"}, 20, false, []string{"1", "2"}},
		{"leading negative", []string{"-1", "2"}, 20, false, []string{"-1", "2"}},
		{"flag value", []string{"-rows", "5", "-1"}, 5, false, []string{"-1"}},
		{"inline value", []string{"-rows=7", "3"}, 7, false, []string{"3"}},
		{"bool flag", []string{"-no-color", "-4"}, 20, true, []string{"-4"}},
		{"terminator", []string{"--", "-rows"}, 20, false, []string{"-rows"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet("render", &bytes.Buffer{})
			rows := fs.Int("rows", 20, "")
			noColor := fs.Bool("no-color", false, "")

			heights, err := parseArgs(fs, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, *rows)
			assert.Equal(t, tt.color, *noColor)
			assert.Equal(t, tt.heights, heights)
		})
	}
}

func TestRender(t *testing.T) {
	code, stdout, _ := runCLI("render", "-no-color", "3", "0", "3")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "3 |█~█", lines[0])
	assert.Equal(t, "2 |█~█", lines[1])
	assert.Contains(t, lines[4], "trapped water: 3")

	code, _, _ = runCLI("render", "-rows", "-1", "1")
	assert.Equal(t, exitUsage, code)
}

func TestDemo(t *testing.T) {
	code, stdout, _ := runCLI("demo")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, len(demoCases), strings.Count(stdout, "✓"))
	assert.Contains(t, stdout, "trap([4,2,3]) = 1 (expected 1)")
}

func TestCompletionAndVersion(t *testing.T) {
	code, stdout, _ := runCLI("completion", "bash")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "complete -F _trap_completion trap")

	code, _, _ = runCLI("completion", "fish")
	assert.Equal(t, exitUsage, code)

	code, stdout, _ = runCLI("version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "trap version "+rainwatersvc.Version+"\n", stdout)
}
