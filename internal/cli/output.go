package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// table is a rendered view of a resource list: one header row and the
// matching cells.
type table struct {
	headers []string
	rows    [][]string
}

// tabular is implemented by the view types that know their table layout.
type tabular interface {
	table() table
}

type formatter func(w io.Writer, data tabular) error

func newFormatter(format string) (formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return formatTable, nil
	case "json":
		return formatJSON, nil
	case "yaml":
		return formatYAML, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (table, json, yaml)", format)
	}
}

func formatTable(w io.Writer, data tabular) error {
	t := data.table()
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(w, "No resources found.")
		return err
	}
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func formatJSON(w io.Writer, data tabular) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// formatYAML goes through JSON so field names follow the API's json tags.
func formatYAML(w io.Writer, data tabular) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := yaml.Unmarshal(payload, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
