package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type format string

const (
	formatJSON format = "json"
	formatYAML format = "yaml"
)

var output = formatJSON

func setOutputFormat(s string) error {
	switch format(s) {
	case formatJSON, formatYAML:
		output = format(s)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", s)
	}
}

// writeOutput writes data in the selected format.
func writeOutput(w io.Writer, data any) error {
	switch output {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
}
