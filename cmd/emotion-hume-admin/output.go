package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output %q (want json or yaml)", format)
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return validateOutputFormat(format)
	}
}

// decodeRaw turns a stored JSON document into plain values so it renders
// as structure under both encoders.
func decodeRaw(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode stored result: %w", err)
	}
	return v, nil
}
