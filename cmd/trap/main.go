// Package main provides the trap command, which computes how much rain water
// a terrain of bars traps.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/R3E-Network/rainwater/internal/cli"
	"github.com/R3E-Network/rainwater/pkg/rainwater"
	rainwatersvc "github.com/R3E-Network/rainwater/services/rainwater"
	"github.com/R3E-Network/rainwater/services/rainwater/client"
)

// Exit codes
const (
	exitOK      = 0
	exitUsage   = 1
	exitInput   = 2
	exitRemote  = 3
	usageHeader = "trap - trapped rain water calculator"
)

// demoCases are the reference invocations run by "trap demo".
var demoCases = []struct {
	heights []int
	want    int
}{
	{[]int{0, 1, 0, 2, 1, 0, 1, 3, 2, 1, 2, 1}, 6},
	{[]int{4, 2, 3}, 1},
	{[]int{}, 0},
	{[]int{1, 1, 1, 1}, 0},
	{[]int{5, 4, 3, 2, 1}, 0},
	{[]int{3, 0, 0, 0, 3}, 9},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "calc":
		return handleCalc(args[1:], stdout, stderr)
	case "profile":
		return handleProfile(args[1:], stdout, stderr)
	case "render":
		return handleRender(args[1:], stdout, stderr)
	case "demo":
		return handleDemo(stdout)
	case "completion":
		return handleCompletion(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "trap version %s\n", rainwatersvc.Version)
		return exitOK
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, usageHeader+`

Usage:
  trap <command> [options] [heights...]

Commands:
  calc        Compute the trapped water
    -method <name>    prefix or two-pointer (default: prefix)
    -heights <list>   Comma separated heights instead of arguments
    -server <url>     Compute on a rainwater service
    -timeout <dur>    Request timeout when -server is set (default: 10s)

  profile     Print left/right highest profiles, water per bar and basins
    -heights <list>   Comma separated heights instead of arguments
    -json             Print the profile as JSON

  render      Draw the terrain and its water
    -heights <list>   Comma separated heights instead of arguments
    -rows <n>         Maximum rows to draw, 0 for no limit (default: 20)
    -no-color         Disable colored output

  demo        Run the reference examples
  completion  Print a shell completion script (bash, zsh)
  version     Print the version
  help        Show this help message

Examples:
  trap calc 0 1 0 2 1 0 1 3 2 1 2 1
  trap calc -method two-pointer -heights 4,2,3
  trap render -heights "[3,0,1,0,3]"`)
}

// =============================================================================
// Input
// =============================================================================

// readHeights parses heights from the -heights flag, or the positional
// arguments when the flag is empty. Negative heights and profiles whose water
// does not fit in an int are rejected.
func readHeights(flagValue string, args []string) ([]int, error) {
	var (
		heights []int
		err     error
	)
	if flagValue != "" {
		heights, err = rainwater.ParseHeights(flagValue)
	} else {
		heights, err = rainwater.ParseArgs(args)
	}
	if err != nil {
		return nil, err
	}
	if _, err := rainwater.TrapChecked(heights); err != nil {
		return nil, err
	}
	return heights, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseArgs parses the flags of fs and returns the positional heights. The
// heights start at the first token that is not a flag or a flag value, so a
// leading negative height such as "-1" is not mistaken for a flag.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	split := len(args)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || !strings.HasPrefix(arg, "-") || isNumber(arg) {
			split = i
			break
		}
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) {
			i++
		}
	}

	if err := fs.Parse(args[:split]); err != nil {
		return nil, err
	}
	rest := args[split:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	return append(fs.Args(), rest...), nil
}

// isNumber reports whether arg starts like a signed integer ("-1", "-3,4").
func isNumber(arg string) bool {
	arg = strings.TrimPrefix(arg, "-")
	return arg != "" && arg[0] >= '0' && arg[0] <= '9'
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// =============================================================================
// Commands
// =============================================================================

func handleCalc(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("calc", stderr)
	methodName := fs.String("method", string(rainwater.DefaultMethod), "Computation method (prefix, two-pointer)")
	heightsFlag := fs.String("heights", "", "Comma separated heights")
	server := fs.String("server", "", "Base URL of a rainwater service")
	timeout := fs.Duration("timeout", 10*time.Second, "Request timeout when -server is set")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}

	method, err := rainwater.ParseMethod(*methodName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	heights, err := readHeights(*heightsFlag, positional)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInput
	}

	if *server == "" {
		fmt.Fprintln(stdout, method.Trap(heights))
		return exitOK
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(client.Config{BaseURL: *server, Timeout: *timeout})
	resp, err := c.Trap(ctx, heights, method.String())
	if err != nil {
		fmt.Fprintf(stderr, "Error: remote computation failed: %v\n", err)
		return exitRemote
	}
	fmt.Fprintln(stdout, resp.Water)
	return exitOK
}

func handleProfile(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("profile", stderr)
	heightsFlag := fs.String("heights", "", "Comma separated heights")
	asJSON := fs.Bool("json", false, "Print the profile as JSON")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}

	heights, err := readHeights(*heightsFlag, positional)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInput
	}

	prof := rainwater.Compute(heights)
	if !*asJSON {
		cli.WriteProfile(stdout, prof)
		return exitOK
	}

	basins := rainwater.Basins(prof)
	if basins == nil {
		basins = []rainwater.Basin{}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rainwatersvc.ProfileResponse{Profile: prof, Basins: basins}); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}

func handleRender(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("render", stderr)
	heightsFlag := fs.String("heights", "", "Comma separated heights")
	rows := fs.Int("rows", 20, "Maximum rows to draw, 0 for no limit")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}
	if *rows < 0 {
		fmt.Fprintln(stderr, "Error: -rows must not be negative")
		return exitUsage
	}

	heights, err := readHeights(*heightsFlag, positional)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInput
	}

	p := cli.NewPrinter(stdout)
	if *noColor {
		p.DisableColor()
	}

	prof := rainwater.Compute(heights)
	p.RenderTerrain(prof, *rows)
	p.Info(fmt.Sprintf("trapped water: %d", prof.Total))
	return exitOK
}

func handleDemo(stdout io.Writer) int {
	p := cli.NewPrinter(stdout)

	failed := 0
	for _, tc := range demoCases {
		got := rainwater.Trap(tc.heights)
		line := fmt.Sprintf("trap(%s) = %d (expected %d)", formatHeights(tc.heights), got, tc.want)
		if got != tc.want {
			failed++
			p.Error(line)
			continue
		}
		p.Success(line)
	}

	if failed > 0 {
		return exitInput
	}
	return exitOK
}

func handleCompletion(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: trap completion bash|zsh")
		return exitUsage
	}
	if err := cli.GenerateCompletion(stdout, args[0]); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}

func formatHeights(heights []int) string {
	parts := make([]string, len(heights))
	for i, h := range heights {
		parts[i] = fmt.Sprint(h)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
