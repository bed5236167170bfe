package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/metagen/java/codebase"
	"github.com/dhamidi/metagen/metagen/emit"
)

func newGenerateCmd(s *settings) *cobra.Command {
	var dryRun, clean bool

	cmd := &cobra.Command{
		Use:   "generate [source-dir...]",
		Short: "Write metamodel classes for every bean in the source directories",
		Long: `Scan Java sources, discover beans and write one <Name>Meta.java per
top-level bean below the output directory.

Source directories default to source_dirs from metagen.yaml. Diagnostics
are printed to stderr; the command fails when any of them is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCodebase(s, s.sourceDirs(args))
			if err != nil {
				return err
			}
			defer c.Close()

			if err := reportErrors(c.Diagnostics()); err != nil {
				return err
			}
			out := &emit.Output{Dir: s.cfg.OutputDir, DryRun: dryRun}
			return generateAll(c, out, clean)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the files that would change without writing them")
	cmd.Flags().BoolVar(&clean, "clean", false, "delete generated files of beans that no longer exist")

	return cmd
}

// generateAll writes the metamodel of every bean in c and, when clean is
// set, deletes generated files that no bean owns anymore.
func generateAll(c *codebase.Codebase, out *emit.Output, clean bool) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	beans := c.Beans()
	written := 0
	for _, bean := range beans {
		file, changed, err := out.Write(bean)
		if err != nil {
			return err
		}
		if changed {
			written++
			green.Print("wrote ")
			fmt.Println(file)
		}
	}

	if clean {
		removed, err := out.Clean(beans)
		if err != nil {
			return err
		}
		for _, file := range removed {
			red.Print("removed ")
			fmt.Println(file)
		}
	}

	fmt.Fprintf(os.Stderr, "%d beans, %d files written\n", len(beans), written)
	return nil
}
