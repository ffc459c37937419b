package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// render writes result as YAML, or calls table for the default format.
func (a *app) render(w io.Writer, result any, table func(io.Writer)) error {
	switch strings.ToLower(a.cfg.GetString("output")) {
	case "", "table", "text":
		table(w)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", a.cfg.GetString("output"))
	}
}
