package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/dis"
)

type listing struct {
	Method       string            `yaml:"method"`
	Instructions []dis.Instruction `yaml:"instructions"`
}

func (a *app) disCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble methods",
		Long:  "Disassemble the method named by --method, or every method when none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			var methods []*bytecode.Method
			if a.cfg.GetString("method") != "" {
				_, m, err := a.selectMethod(dict)
				if err != nil {
					return err
				}
				methods = append(methods, m)
			} else {
				for _, name := range dict.Names() {
					c, _ := dict.Lookup(name)
					for i := 0; i < c.MethodCount(); i++ {
						methods = append(methods, c.MethodAt(i))
					}
				}
			}
			var listings []listing
			for _, m := range methods {
				listings = append(listings, listing{Method: m.Key(), Instructions: dis.Disassemble(m)})
			}
			return a.render(cmd.OutOrStdout(), listings, func(w io.Writer) {
				for i, l := range listings {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintln(w, l.Method)
					dis.Print(l.Instructions, w)
				}
			})
		},
	}
}
