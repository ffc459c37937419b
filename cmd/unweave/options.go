package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/cloudcmds/unweave/provider"
	"github.com/cloudcmds/unweave/vm"
)

// Reads global flags and adjusts the environment accordingly.
func (a *app) processGlobalFlags() {
	if a.cfg.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

func (a *app) logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(a.cfg.GetString("log-level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func (a *app) vmOptions() []vm.Option {
	logger := a.logger()
	opts := []vm.Option{
		vm.WithMaxDepth(a.cfg.GetInt("max-depth")),
		vm.WithMaxSteps(a.cfg.GetInt("max-steps")),
		vm.WithMaxArrayElements(a.cfg.GetInt("max-array-elements")),
		vm.WithLogger(logger),
	}
	if logger.GetLevel() <= zerolog.TraceLevel {
		opts = append(opts, vm.WithObserver(vm.NewLogObserver(logger, vm.StepAll)))
	}
	return opts
}

// providers returns the standard chain, with extra providers consulted
// first.
func providers(extra ...vm.Provider) *provider.Delegating {
	return provider.NewDelegating(extra...).Register(
		provider.NewBytecode(),
		provider.NewJVM(),
		provider.NewFields(),
		provider.NewComparison(),
	)
}
