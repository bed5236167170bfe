package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd(s *settings) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check [source-dir...]",
		Short: "List the source files that can produce metamodel classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCodebase(s, s.sourceDirs(args))
			if err != nil {
				return err
			}
			defer c.Close()

			green := color.New(color.FgGreen)
			faint := color.New(color.Faint)
			candidates := 0
			files := c.Files()
			for _, path := range files {
				fi := c.File(path)
				switch {
				case fi.CanGenerate:
					candidates++
					green.Print("generate ")
					fmt.Printf("%s (%d beans)\n", path, len(c.BeansInFile(path)))
				case all:
					faint.Print("skip     ")
					fmt.Println(path)
				}
			}
			fmt.Printf("%d of %d files can generate\n", candidates, len(files))
			return reportErrors(c.Diagnostics())
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list files that are skipped")

	return cmd
}
