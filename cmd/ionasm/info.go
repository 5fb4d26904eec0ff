package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ionasm/internal/driver"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] file.ion",
	Short: "Show header metadata for a circuit source file",
	Long: `Info prints a file's declarations: register, let, map, usepulses,
and macro names. Results are cached by content hash, so repeated runs over
unchanged files skip parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("no-cache", false, "ignore the header cache")
	infoCmd.Flags().Bool("drop-cache", false, "clear the header cache first")
}

func runInfo(cmd *cobra.Command, args []string) error {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	dropCache, _ := cmd.Flags().GetBool("drop-cache")

	var cache *driver.HeaderCache
	if !noCache {
		var err error
		cache, err = driver.OpenHeaderCache("ionasm")
		if err != nil {
			// Cache trouble never blocks inspection.
			cache = nil
		}
	}
	if dropCache && cache != nil {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop cache: %w", err)
		}
		cache = nil
	}

	payload, err := driver.Inspect(args[0], cache)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if payload.RegisterName != "" {
		fmt.Fprintf(out, "register: %s[%d]\n", payload.RegisterName, payload.RegisterSize)
	}
	for i, name := range payload.ConstNames {
		fmt.Fprintf(out, "let:      %s = %s\n", name, payload.ConstValues[i])
	}
	for _, name := range payload.AliasNames {
		fmt.Fprintf(out, "map:      %s\n", name)
	}
	for _, module := range payload.Usepulses {
		fmt.Fprintf(out, "pulses:   %s\n", module)
	}
	for _, name := range payload.MacroNames {
		fmt.Fprintf(out, "macro:    %s\n", name)
	}
	return nil
}
