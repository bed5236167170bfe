package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/metagen/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("metagen")

// settings is shared by all commands and filled in before a command runs.
type settings struct {
	v          *viper.Viper
	cfg        *config.Config
	configFile string
	verbose    int
}

func main() {
	s := &settings{v: config.New()}

	rootCmd := &cobra.Command{
		Use:          "metagen",
		Short:        "Generate metamodel classes for Java beans",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&s.configFile, "config", "c", "", "config file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&s.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringSliceP("classpath", "p", nil, "class directories and jars used to resolve superclasses")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output directory (default: output_dir from config)")
	s.v.BindPFlag("classpath", rootCmd.PersistentFlags().Lookup("classpath"))
	s.v.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newGenerateCmd(s))
	rootCmd.AddCommand(newWatchCmd(s))
	rootCmd.AddCommand(newLSPCmd(s))
	rootCmd.AddCommand(newInspectCmd(s))
	rootCmd.AddCommand(newCheckCmd(s))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (s *settings) load() error {
	cfg, err := config.Load(s.v, s.configFile)
	if err != nil {
		return err
	}
	s.cfg = cfg

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity+s.verbose, logFile)
	return nil
}

// sourceDirs returns the directories given on the command line, or the
// configured ones.
func (s *settings) sourceDirs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return s.cfg.SourceDirs
}
