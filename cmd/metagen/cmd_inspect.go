package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/metagen/metagen"
	"github.com/dhamidi/metagen/metagen/emit"
)

type inspectResult struct {
	File        string               `json:"file"`
	CanGenerate bool                 `json:"canGenerate"`
	Beans       []*metagen.Bean      `json:"beans"`
	Diagnostics []metagen.Diagnostic `json:"diagnostics"`
}

func newInspectCmd(s *settings) *cobra.Command {
	var source bool

	cmd := &cobra.Command{
		Use:   "inspect <file.java>",
		Short: "Print the beans discovered in a source file",
		Long: `Print the beans discovered in one source file as JSON. The configured
source directories are scanned first so superclasses in other files
resolve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(s, args[0], source)
		},
	}

	cmd.Flags().BoolVarP(&source, "source", "s", false, "print the generated Java source instead of JSON")

	return cmd
}

func runInspect(s *settings, path string, source bool) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(s.cfg.SourceDirs))
	for _, dir := range s.cfg.SourceDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		dirs = append(dirs, abs)
	}

	c, err := openCodebase(s, dirs)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.ScanFile(path); err != nil {
		return err
	}
	fi := c.File(path)
	beans := c.BeansInFile(path)

	if source {
		printDiagnostics(os.Stderr, fi.Diagnostics)
		for _, bean := range beans {
			text, err := emit.Source(bean)
			if err != nil {
				return err
			}
			fmt.Printf("// %s\n%s\n", emit.Path(bean), text)
		}
		return nil
	}

	result := inspectResult{
		File:        path,
		CanGenerate: fi.CanGenerate,
		Beans:       beans,
		Diagnostics: fi.Diagnostics,
	}
	if result.Beans == nil {
		result.Beans = []*metagen.Bean{}
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []metagen.Diagnostic{}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode beans: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
