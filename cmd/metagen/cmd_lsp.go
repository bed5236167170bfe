package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/metagen/java/codebase"
)

func newLSPCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, codebase.LSPOptions{
				SourceDirs: s.cfg.SourceDirs,
				Classpath:  s.cfg.Classpath,
				OutputDir:  s.cfg.OutputDir,
			})
			return server.RunStdio()
		},
	}
}
