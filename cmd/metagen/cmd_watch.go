package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/metagen/java/codebase"
	"github.com/dhamidi/metagen/metagen/emit"
)

func newWatchCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [source-dir...]",
		Short: "Generate, then regenerate metamodel classes as sources change",
		Long: `Run generate --clean once, then watch the source directories and
rewrite or delete metamodel files as beans change. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, s, s.sourceDirs(args))
		},
	}
}

func runWatch(ctx context.Context, s *settings, dirs []string) error {
	c, err := openCodebase(s, dirs)
	if err != nil {
		return err
	}
	defer c.Close()

	printDiagnostics(os.Stderr, c.Diagnostics())
	out := &emit.Output{Dir: s.cfg.OutputDir}
	if err := generateAll(c, out, true); err != nil {
		return err
	}

	w, err := codebase.NewWatcher(c, s.cfg.Watch.Debounce, func(path string, change codebase.Change) {
		if fi := c.File(path); fi != nil {
			printDiagnostics(os.Stderr, fi.Diagnostics)
		}
		applyChange(out, change)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %d source directories\n", len(dirs))
	return w.Run(ctx)
}

func applyChange(out *emit.Output, change codebase.Change) {
	for _, bean := range change.Removed {
		if file, removed, err := out.Remove(bean); err != nil {
			log.Errorf("%s", err)
		} else if removed {
			fmt.Printf("removed %s\n", file)
		}
	}
	for _, bean := range change.Updated {
		if file, written, err := out.Write(bean); err != nil {
			log.Errorf("%s", err)
		} else if written {
			fmt.Printf("wrote %s\n", file)
		}
	}
}
