package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/eduadmin/internal/csvimport"
	"github.com/aanand-mishra/eduadmin/internal/roster"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) bool {
	return f == formatText || f == formatJSON || f == formatYAML
}

func writeReport(w io.Writer, format string, report roster.Report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		return writeYAML(w, report)
	default:
		printReport(w, report)
		return nil
	}
}

// writeYAML renders v through its JSON encoding so YAML keys match the API's.
func writeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the JSON input carried.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func printReport(w io.Writer, report roster.Report) {
	res := report.Result

	for _, is := range res.FileErrors {
		fmt.Fprintf(w, "file: %s\n", is.Message)
	}
	for _, rec := range res.Invalid() {
		for _, msg := range csvimport.Messages(rec.Errors) {
			fmt.Fprintf(w, "line %d (%s): %s\n", rec.Line, rec.Email, msg)
		}
	}

	mode := "imported"
	if report.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "%s: batch %s, %d valid, %d invalid, %d imported, %d skipped\n",
		mode, report.BatchID, res.ValidCount, res.InvalidCount, report.Imported, report.Skipped)
}
