package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"waccc/internal/diag"
	"waccc/internal/diagfmt"
	"waccc/internal/driver"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] <file.wacc>",
		Short: "Compile a WACC program to ARM assembly",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	cmd.Flags().StringP("output", "o", "", "output file (- for stdout)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.wacc>",
		Short: "Report syntax and semantic errors without generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := compile(cmd, args[0], driver.StageSema)
			return err
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.wacc>",
		Short: "Print the checked AST of a WACC program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := compile(cmd, args[0], driver.StageSema)
			if err != nil {
				return err
			}
			return diagfmt.FormatAST(cmd.OutOrStdout(), res.Prog)
		},
	}
}

// compile runs the driver up to stage, prints diagnostics and turns a
// rejected program into an *exitError.
func compile(cmd *cobra.Command, path string, stage driver.Stage) (*driver.Result, *settings, error) {
	s, err := loadSettings(cmd, dirOf(path))
	if err != nil {
		return nil, nil, err
	}
	tracer, cleanup, err := setupTracing(cmd, s.cfg.Trace)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	opts := driver.Options{MaxDiagnostics: s.cfg.Diagnostics.Max, Stage: stage}
	if stage == driver.StageCodegen {
		opts.Cache = s.cache
	}
	res, err := driver.CompileFile(cmd.Context(), path, opts)
	if err != nil {
		var ie *diag.InternalError
		if errors.As(err, &ie) {
			dumpTrace(cmd.ErrOrStderr(), tracer)
		}
		return nil, nil, err
	}
	if err := s.report(cmd.ErrOrStderr(), res); err != nil {
		return nil, nil, err
	}
	if err := s.reportTimings(cmd.ErrOrStderr(), res); err != nil {
		return nil, nil, err
	}
	if res.ExitCode != driver.ExitOK {
		return nil, nil, &exitError{code: res.ExitCode}
	}
	return res, s, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	res, s, err := compile(cmd, args[0], driver.StageCodegen)
	if err != nil {
		return err
	}
	flag, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	out := outputPath(args[0], flag, s.cfg)
	if out == "-" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), res.Asm)
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(res.Asm), 0o644); err != nil { //nolint:gosec // assembly is not secret
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
