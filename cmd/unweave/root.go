package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	cfg     *viper.Viper
	cfgFile string
}

func newApp() *app {
	return &app{cfg: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "unweave",
		Short:         "Inspect and evaluate JVM bytecode written in assembler form",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			a.processGlobalFlags()
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.unweave.yaml)")
	flags.StringP("code", "c", "", "Assembler source to load")
	flags.Bool("stdin", false, "Read assembler source from stdin")
	flags.String("class", "", "Class containing the method")
	flags.StringP("method", "m", "", "Method as name or name(descriptor)")
	flags.StringP("output", "o", "table", "Output format (table, yaml)")
	flags.Int("max-depth", 64, "Maximum call depth during evaluation")
	flags.Int("max-steps", 1_000_000, "Maximum instructions per evaluation")
	flags.Int("max-array-elements", 1<<20, "Maximum array elements allocated per evaluation")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "Disable colored output")
	_ = a.cfg.BindPFlags(flags)

	root.AddCommand(
		a.disCmd(),
		a.blocksCmd(),
		a.walkCmd(),
		a.evalCmd(),
		a.sliceCmd(),
	)
	return root
}

// initConfig reads the config file, if any, and the UNWEAVE_ environment.
func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.cfg.SetConfigFile(a.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			a.cfg.AddConfigPath(home)
		}
		a.cfg.SetConfigName(".unweave")
		a.cfg.SetConfigType("yaml")
	}
	a.cfg.SetEnvPrefix("unweave")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()
	if err := a.cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && a.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", filepath.Base(a.cfg.ConfigFileUsed()), err)
	}
	return nil
}
