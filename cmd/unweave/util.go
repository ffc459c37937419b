package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// source determines the assembler text to load. There are three
// possibilities: --code, --stdin or a path given as the first argument.
func (a *app) source(cmd *cobra.Command, args []string) (string, string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet := a.cfg.GetBool("stdin")
	pathSupplied := len(args) > 0
	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return "<stdin>", string(data), nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return args[0], string(data), nil
	case codeSet:
		return "<code>", a.cfg.GetString("code"), nil
	}
	return "", "", errors.New("no input provided")
}

// load assembles the input into a dictionary.
func (a *app) load(cmd *cobra.Command, args []string) (bytecode.ClassMap, error) {
	name, src, err := a.source(cmd, args)
	if err != nil {
		return nil, err
	}
	classes, err := asm.ParseNamed(name, src)
	if err != nil {
		return nil, err
	}
	return bytecode.NewClassMap(classes...), nil
}

// selectMethod finds the method named by --method, in the class named by
// --class or, failing that, the only class declaring it.
func (a *app) selectMethod(dict bytecode.ClassMap) (*bytecode.Class, *bytecode.Method, error) {
	ref := a.cfg.GetString("method")
	if ref == "" {
		return nil, nil, errors.New("a method is required (--method)")
	}
	name, desc, hasDesc := strings.Cut(ref, "(")
	if hasDesc {
		desc = "(" + desc
	}
	var classes []*bytecode.Class
	if className := a.cfg.GetString("class"); className != "" {
		c, ok := dict.Lookup(strings.ReplaceAll(className, ".", "/"))
		if !ok {
			return nil, nil, fmt.Errorf("class %s not found", className)
		}
		classes = append(classes, c)
	} else {
		for _, n := range dict.Names() {
			c, _ := dict.Lookup(n)
			classes = append(classes, c)
		}
	}
	type match struct {
		class  *bytecode.Class
		method *bytecode.Method
	}
	var found []match
	for _, c := range classes {
		for i := 0; i < c.MethodCount(); i++ {
			m := c.MethodAt(i)
			if m.Name() == name && (!hasDesc || m.Desc() == desc) {
				found = append(found, match{c, m})
			}
		}
	}
	switch len(found) {
	case 0:
		return nil, nil, fmt.Errorf("method %s not found", ref)
	case 1:
		return found[0].class, found[0].method, nil
	}
	var keys []string
	for _, f := range found {
		keys = append(keys, f.method.Key())
	}
	return nil, nil, fmt.Errorf("method %s is ambiguous: %s", ref, strings.Join(keys, ", "))
}
