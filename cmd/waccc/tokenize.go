package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"waccc/internal/diagfmt"
	"waccc/internal/driver"
	"waccc/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.wacc>",
		Short: "Print the tokens of a WACC source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := loadSettings(cmd, dirOf(args[0]))
	if err != nil {
		return err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	toks, bag, err := driver.Tokenize(fs, id, s.cfg.Diagnostics.Max)
	if err != nil {
		return err
	}
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, fs)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks, fs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	res := &driver.Result{FileSet: fs, Bag: bag}
	if err := s.report(cmd.ErrOrStderr(), res); err != nil {
		return err
	}
	if code := driver.ExitCodeFor(bag); code != driver.ExitOK {
		return &exitError{code: code}
	}
	return nil
}
