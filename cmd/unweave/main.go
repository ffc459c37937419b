package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/cloudcmds/unweave/errz"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newApp().rootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func fatal(msg any) {
	switch msg := msg.(type) {
	case error:
		fmt.Fprint(os.Stderr, errz.NewFormatter(!color.NoColor).Format(msg))
	default:
		fmt.Fprintln(os.Stderr, color.RedString("%v", msg))
	}
	os.Exit(1)
}
