package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"waccc/internal/project"
	"waccc/internal/trace"
)

// setupTracing builds the tracer described by cfg and flags and attaches it
// to the command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg project.TraceConfig) (trace.Tracer, func(), error) {
	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	format, err := trace.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	modeStr, err := cmd.Root().PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tc := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: cfg.Output,
	}
	if cfg.Output == "" || cfg.Output == "-" {
		tc.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// dumpTrace prints the events a ring tracer kept; used after an internal
// compiler error.
func dumpTrace(w io.Writer, t trace.Tracer) {
	d, ok := t.(trace.Dumper)
	if !ok {
		return
	}
	fmt.Fprintln(w, "--- trace (most recent events) ---")
	if err := d.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
