package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
)

func renderJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, jsonPrefix, jsonIndent)
	if err != nil {
		return fmt.Errorf("failed to encode json report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func renderYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode yaml report: %w", err)
	}
	return enc.Close()
}
