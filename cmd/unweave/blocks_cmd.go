package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/unweave/dis"
	"github.com/cloudcmds/unweave/flow"
)

func (a *app) blocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [file]",
		Short: "Partition a method into labelled blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			_, m, err := a.selectMethod(dict)
			if err != nil {
				return err
			}
			g, err := flow.Partition(m)
			if err != nil {
				return err
			}
			blocks := dis.Blocks(g)
			return a.render(cmd.OutOrStdout(), blocks, func(w io.Writer) {
				dis.PrintBlocks(blocks, w)
			})
		},
	}
}

func (a *app) walkCmd() *cobra.Command {
	var start int
	var stop []int
	cmd := &cobra.Command{
		Use:   "walk [file]",
		Short: "List the instructions reachable from a starting index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			_, m, err := a.selectMethod(dict)
			if err != nil {
				return err
			}
			r, err := flow.Walk(m, start, stop)
			if err != nil {
				return err
			}
			steps := dis.Region(r)
			return a.render(cmd.OutOrStdout(), steps, func(w io.Writer) {
				dis.PrintRegion(steps, m, w)
			})
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "Instruction index to start from")
	cmd.Flags().IntSliceVar(&stop, "stop", nil, "Instruction indexes that end the walk")
	return cmd
}
