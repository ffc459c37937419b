package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/dataflow"
	"github.com/cloudcmds/unweave/dis"
	"github.com/cloudcmds/unweave/vm"
)

type sliceResult struct {
	Method string            `yaml:"method"`
	Index  int               `yaml:"index"`
	Slice  []dis.Instruction `yaml:"slice"`
	Value  *evalResult       `yaml:"value,omitempty"`
}

func (a *app) sliceCmd() *cobra.Command {
	var index, from int
	var evaluate bool
	cmd := &cobra.Command{
		Use:   "slice [file]",
		Short: "Show the instructions that compute the value pushed at an index",
		Long: `Show the instructions that compute the value pushed at --index. The
range analysed starts at --from, by default the start of the enclosing block.
With --eval the slice is extracted into its own method and evaluated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			class, m, err := a.selectMethod(dict)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("from") {
				from = blockStart(m, index)
			}
			fl, err := dataflow.Build(m, from, index+1)
			if err != nil {
				return err
			}
			frame, ok := fl.At(index)
			if !ok {
				return fmt.Errorf("instruction %d was not reached from %d", index, from)
			}
			if !frame.Pushes() {
				return fmt.Errorf("instruction %d (%s) does not push a value", index, frame.Instruction())
			}
			result := sliceResult{Method: m.Key(), Index: index}
			rows := dis.Disassemble(m)
			for _, i := range frame.Slice() {
				for _, row := range rows {
					if row.Index == i {
						result.Slice = append(result.Slice, row)
					}
				}
			}
			if evaluate {
				extracted, err := dataflow.Extract(m, frame, fmt.Sprintf("slice$%d", index))
				if err != nil {
					return err
				}
				opts := append(a.vmOptions(), vm.WithDictionary(dict))
				v, err := vm.Evaluate(cmd.Context(), class, extracted, nil, providers(), opts...)
				if err != nil {
					return err
				}
				result.Value = &evalResult{Method: extracted.Key(), Type: string(v.Type()), Value: plain(v)}
			}
			return a.render(cmd.OutOrStdout(), result, func(w io.Writer) {
				dis.Print(result.Slice, w)
				if result.Value != nil {
					fmt.Fprintln(w, result.Value)
				}
			})
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&index, "index", 0, "Index of the instruction whose value is sliced")
	flags.IntVar(&from, "from", 0, "First instruction of the analysed range")
	flags.BoolVar(&evaluate, "eval", false, "Evaluate the extracted slice")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

// blockStart returns the first index after the label owning index.
func blockStart(m *bytecode.Method, index int) int {
	l := m.OwningLabel(index)
	if i, ok := m.LabelIndex(l); ok {
		return i + 1
	}
	return 0
}
