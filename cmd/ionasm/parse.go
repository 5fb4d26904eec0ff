package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ionasm/internal/diagfmt"
	"ionasm/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.ion",
	Short: "Parse a circuit source file and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().Bool("branch", false, "enable experimental branch statements")
	parseCmd.Flags().Bool("header-only", false, "stop after the header declarations")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	enableBranch, _ := cmd.Flags().GetBool("branch")
	headerOnly, _ := cmd.Flags().GetBool("header-only")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.CompileFile(args[0], driver.Options{
		ParseOnly:      true,
		HeaderOnly:     headerOnly,
		EnableBranch:   enableBranch,
		MaxDiagnostics: maxDiagnostics,
	})
	if result != nil && result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:      useColor(cmd, os.Stderr),
			ShowNotes:  true,
			SourceLine: true,
		})
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(os.Stdout, result.Tree, result.Root, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Tree, result.Root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
