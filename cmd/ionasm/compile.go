package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ionasm/internal/diagfmt"
	"ionasm/internal/driver"
	"ionasm/internal/gates"
	"ionasm/internal/gen"
	"ionasm/internal/ir"
	"ionasm/internal/passes"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.ion|dir",
	Short: "Compile a circuit source file to canonical scheduled form",
	Long: `Compile runs the full pipeline: parse, build, substitute constants,
resolve aliases, optionally expand macros and schedule, then print the
canonical text form. Given a directory, every *.ion file under it is
compiled in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().Bool("schedule", false, "schedule unordered blocks")
	compileCmd.Flags().Bool("expand-macros", false, "inline macro calls")
	compileCmd.Flags().Bool("traces", false, "discover and print subcircuit traces")
	compileCmd.Flags().Bool("branch", false, "enable experimental branch statements")
	compileCmd.Flags().StringArray("let", nil, "override a constant, e.g. --let a=0 (repeatable)")
	compileCmd.Flags().String("gates", "", "native gate catalog (TOML)")
	compileCmd.Flags().String("manifest", "", "pulse module manifest (default: ionasm.toml if present)")
	compileCmd.Flags().Int("jobs", 0, "parallel compilations for directories (0 = GOMAXPROCS)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	opts, err := compileOptions(cmd)
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	showTraces, _ := cmd.Flags().GetBool("traces")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if info.IsDir() {
		return compileDir(cmd, args[0], opts, jobs, quiet)
	}

	result, err := driver.CompileFile(args[0], opts)
	if result != nil && result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:      useColor(cmd, os.Stderr),
			ShowNotes:  true,
			SourceLine: true,
		})
	}
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	fmt.Print(gen.Generate(result.Circuit))
	if showTraces {
		printTraces(result)
	}
	return nil
}

func compileDir(cmd *cobra.Command, dir string, opts driver.Options, jobs int, quiet bool) error {
	results, err := driver.CompileDir(context.Background(), dir, opts, jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Result != nil && r.Result.Bag.Len() > 0 {
			r.Result.Bag.Sort()
			diagfmt.Pretty(os.Stderr, r.Result.Bag, r.Result.FileSet, diagfmt.PrettyOpts{
				Color:      useColor(cmd, os.Stderr),
				ShowNotes:  true,
				SourceLine: true,
			})
		}
		if r.Err != nil {
			failed++
			continue
		}
		if !quiet {
			fmt.Printf("%s: ok\n", r.Path)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// compileOptions assembles driver options from the flags: the gate catalog,
// the usepulses manifest, and the constant overrides.
func compileOptions(cmd *cobra.Command) (driver.Options, error) {
	opts := driver.Options{}
	opts.ExpandMacros, _ = cmd.Flags().GetBool("expand-macros")
	opts.Schedule, _ = cmd.Flags().GetBool("schedule")
	opts.DiscoverTraces, _ = cmd.Flags().GetBool("traces")
	opts.EnableBranch, _ = cmd.Flags().GetBool("branch")
	opts.MaxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	if catalog, _ := cmd.Flags().GetString("gates"); catalog != "" {
		table, err := gates.LoadTOML(catalog)
		if err != nil {
			return opts, fmt.Errorf("failed to load gate catalog: %w", err)
		}
		opts.Gates = table
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" {
		if _, err := os.Stat("ionasm.toml"); err == nil {
			manifestPath = "ionasm.toml"
		}
	}
	if manifestPath != "" {
		manifest, err := gates.LoadManifest(manifestPath)
		if err != nil {
			return opts, fmt.Errorf("failed to load manifest: %w", err)
		}
		opts.Resolver = manifest.Resolver()
	}

	lets, _ := cmd.Flags().GetStringArray("let")
	if len(lets) > 0 {
		overrides, err := parseOverrides(lets)
		if err != nil {
			return opts, err
		}
		opts.Overrides = overrides
	}
	return opts, nil
}

func parseOverrides(entries []string) (passes.Overrides, error) {
	overrides := make(passes.Overrides, len(entries))
	for _, entry := range entries {
		name, text, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("malformed override %q (want name=value)", entry)
		}
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			overrides[name] = ir.IntNumber(i)
			continue
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("override %q value is not a number", entry)
		}
		overrides[name] = ir.FloatNumber(f)
	}
	return overrides, nil
}

func printTraces(result *driver.Result) {
	for i, t := range result.Traces {
		fmt.Printf("trace %d: %s .. %s", i, t.Start, t.End)
		if len(t.UsedQubits) > 0 {
			fmt.Printf(" qubits %s", strings.Join(t.UsedQubits, ","))
		}
		fmt.Println()
	}
}
