package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"waccc/internal/driver"
	"waccc/internal/prof"
	"waccc/internal/version"
)

// exitError carries a process exit code through cobra. Diagnostics have
// already been printed when it is returned.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// newRootCmd builds the command tree. The returned func stops profilers
// started by the persistent flags; cobra skips post-run hooks on error, so
// the caller runs it.
func newRootCmd() (*cobra.Command, func() error) {
	root := &cobra.Command{
		Use:           "waccc",
		Short:         "WACC compiler for 32-bit ARM",
		Long:          `waccc checks WACC programs and compiles them to ARM assembly (GNU as syntax)`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diagnostics-format", "pretty", "diagnostics format (pretty|short|json)")
	pf.Bool("no-cache", false, "do not read or write the assembly cache")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Bool("timings", false, "print per-phase timings to stderr")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("go-trace", "", "write a Go runtime trace to file")

	var session *prof.Session
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		opts, err := profOptions(cmd)
		if err != nil {
			return err
		}
		session, err = prof.Start(opts)
		return err
	}
	return root, func() error { return session.Stop() }
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, stopProfiling := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintf(stderr, "waccc: profiling: %v\n", perr)
	}
	if err == nil {
		return driver.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "waccc: %v\n", err)
	return driver.ExitInternal
}

func profOptions(cmd *cobra.Command) (prof.Options, error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile": &opts.CPU,
		"mem-profile": &opts.Mem,
		"go-trace":    &opts.Trace,
	} {
		v, err := pf.GetString(name)
		if err != nil {
			return opts, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	return opts, nil
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms
}
