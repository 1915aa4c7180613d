package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plint/internal/diagfmt"
	"plint/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.php",
		Short: "Tokenize a PHP source file",
		Long:  `Tokenize prints the token stream of a file, annotation comments included`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("encoding", "", "source encoding (utf-8|iso-8859-1|windows-1252)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, cfg.Analysis.Encoding, cfg.Output.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		pathMode, err := diagfmt.ParsePathMode(cfg.Output.PathMode)
		if err != nil {
			return err
		}
		wd, _ := os.Getwd()
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, diagfmt.PrettyOpts{
			Color:     useColor(cfg.Output.Color, os.Stderr),
			PathMode:  pathMode,
			BaseDir:   wd,
			TabWidth:  cfg.Output.TabWidth,
			ShowNotes: true,
		})
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errChecksFailed
	}
	return nil
}
