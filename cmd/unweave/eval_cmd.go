package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/provider"
	"github.com/cloudcmds/unweave/vm"
)

type evalResult struct {
	Method   string `yaml:"method"`
	Type     string `yaml:"type,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	Captured []any  `yaml:"captured,omitempty"`
}

func (r evalResult) String() string {
	if r.Captured != nil {
		parts := make([]string, len(r.Captured))
		for i, v := range r.Captured {
			parts[i] = fmt.Sprint(v)
		}
		return "captured: " + strings.Join(parts, ", ")
	}
	if r.Type == "" {
		return "void"
	}
	return fmt.Sprintf("%v (%s)", r.Value, r.Type)
}

func (a *app) evalCmd() *cobra.Command {
	var capture string
	cmd := &cobra.Command{
		Use:   "eval [file] [args...]",
		Short: "Evaluate a static method",
		Long: `Evaluate the static method named by --method with the given arguments.
Arguments are parsed according to the method descriptor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, rest := a.splitArgs(cmd, args)
			dict, err := a.load(cmd, files)
			if err != nil {
				return err
			}
			class, m, err := a.selectMethod(dict)
			if err != nil {
				return err
			}
			if !m.IsStatic() {
				return fmt.Errorf("%s is not static", m.Key())
			}
			values, err := parseArgs(m, rest)
			if err != nil {
				return err
			}
			var extra []vm.Provider
			if capture != "" {
				c, err := parseCapture(capture)
				if err != nil {
					return err
				}
				extra = append(extra, c)
			}
			opts := append(a.vmOptions(), vm.WithDictionary(dict))
			v, err := vm.Evaluate(cmd.Context(), class, m, values, providers(extra...), opts...)
			result := evalResult{Method: m.Key()}
			if sig, ok := errz.AsAbort(err); ok {
				result.Captured = captured(sig.Value)
			} else if err != nil {
				return err
			} else if v != nil {
				result.Type = string(v.Type())
				result.Value = plain(v)
			}
			return a.render(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintln(w, result)
			})
		},
	}
	cmd.Flags().StringVar(&capture, "capture", "",
		"Stop at the first call to owner.name(descriptor) and print its arguments")
	return cmd
}

// splitArgs separates the input file from method arguments. With --code or
// --stdin every positional argument belongs to the method.
func (a *app) splitArgs(cmd *cobra.Command, args []string) ([]string, []string) {
	if cmd.Flags().Changed("code") || a.cfg.GetBool("stdin") || len(args) == 0 {
		return nil, args
	}
	return args[:1], args[1:]
}

func parseArgs(m *bytecode.Method, args []string) ([]any, error) {
	params := m.ParamTypes()
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s takes %d arguments (%d given)", m.Key(), len(params), len(args))
	}
	out := make([]any, len(args))
	for i, s := range args {
		v, err := parseArg(params[i], s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArg(t bytecode.Type, s string) (any, error) {
	switch t.Sort {
	case bytecode.SortBoolean:
		return strconv.ParseBool(s)
	case bytecode.SortChar:
		units := utf16.Encode([]rune(s))
		if len(units) != 1 {
			return nil, fmt.Errorf("%q is not a single char", s)
		}
		return units[0], nil
	case bytecode.SortByte:
		n, err := strconv.ParseInt(s, 0, 8)
		return int8(n), err
	case bytecode.SortShort:
		n, err := strconv.ParseInt(s, 0, 16)
		return int16(n), err
	case bytecode.SortInt:
		n, err := strconv.ParseInt(s, 0, 32)
		return int32(n), err
	case bytecode.SortLong:
		return strconv.ParseInt(s, 0, 64)
	case bytecode.SortFloat:
		f, err := strconv.ParseFloat(s, 32)
		return float32(f), err
	case bytecode.SortDouble:
		return strconv.ParseFloat(s, 64)
	}
	if t.Desc == "Ljava/lang/String;" {
		return s, nil
	}
	return nil, fmt.Errorf("cannot pass %s from the command line", t)
}

// parseCapture builds a Capture provider from owner.name(descriptor).
func parseCapture(ref string) (*provider.Capture, error) {
	open := strings.Index(ref, "(")
	dot := strings.LastIndex(ref[:max(open, 0)], ".")
	if open < 0 || dot < 0 {
		return nil, fmt.Errorf("invalid member %q, expected owner.name(descriptor)", ref)
	}
	owner := strings.ReplaceAll(ref[:dot], ".", "/")
	return provider.NewCapture(owner, ref[dot+1:open], ref[open:], nil), nil
}

func captured(value any) []any {
	args, ok := value.([]object.Value)
	if !ok {
		return []any{fmt.Sprint(value)}
	}
	out := make([]any, len(args))
	for i, v := range args {
		out[i] = plain(v)
	}
	return out
}

// plain returns a YAML friendly form of v.
func plain(v object.Value) any {
	if s, err := object.AsString(v); err == nil {
		return s
	}
	if object.IsReference(v) {
		return v.Inspect()
	}
	return v.Interface()
}
