// Package dis renders methods, block graphs and walk regions as tables.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/flow"
)

// Instruction is one row of a method listing.
type Instruction struct {
	Index    int    `yaml:"index"`
	Label    string `yaml:"label,omitempty"`
	Opcode   string `yaml:"opcode"`
	Operands string `yaml:"operands,omitempty"`
	Info     string `yaml:"info,omitempty"`
}

// Disassemble lists the real instructions of m. Labels are folded into the
// row of the instruction that follows them, and Info names the try-catch
// regions covering the instruction.
func Disassemble(m *bytecode.Method) []Instruction {
	scopes := flow.Scopes(m)
	var out []Instruction
	var pending []string
	for i, ins := range m.Instructions() {
		if ins.IsLabel() {
			pending = append(pending, ins.Label.String())
			continue
		}
		name, operands, _ := strings.Cut(ins.String(), " ")
		if len(operands) > 80 {
			operands = operands[:77] + "..."
		}
		out = append(out, Instruction{
			Index:    i,
			Label:    strings.Join(pending, ","),
			Opcode:   name,
			Operands: operands,
			Info:     covering(scopes.Covering(i)),
		})
		pending = nil
	}
	return out
}

func covering(regions []bytecode.TryCatch) string {
	parts := make([]string, len(regions))
	for i, tc := range regions {
		typ := tc.Type
		if tc.CatchesAll() {
			typ = "*"
		}
		parts[i] = fmt.Sprintf("%s -> %s", typ, tc.Handler)
	}
	return strings.Join(parts, " ")
}

// Print writes a listing as a table.
func Print(instructions []Instruction, writer io.Writer) {
	table := newTable(writer, "Index", "Label", "Opcode", "Operands", "Info")
	for _, ins := range instructions {
		table.Append([]string{
			fmt.Sprint(ins.Index),
			color.CyanString(ins.Label),
			bold.Sprint(ins.Opcode),
			ins.Operands,
			ins.Info,
		})
	}
	table.Render()
}

var bold = color.New(color.Bold)

func newTable(writer io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	return table
}
