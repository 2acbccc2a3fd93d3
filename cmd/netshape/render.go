package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/born-ml/netshape/tensor"
)

const (
	statusOK     = "ok"
	noOutput     = "-"
	compileLabel = "compile error"
)

// renderTable writes one table per report.
func renderTable(w io.Writer, reports []report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s (%s, input %v)\n", r.Source, r.Mode, r.Input)
		if r.Err != nil {
			fmt.Fprintf(tw, "%s: %v\n", compileLabel, r.Err)
			continue
		}

		fmt.Fprintln(tw, "#\tLAYER\tINPUT\tOUTPUT\tSTATUS")
		for _, step := range r.Steps {
			output, status := noOutput, statusOK
			if step.OK() {
				output = step.Output.String()
			} else {
				status = "error: " + step.Message()
			}
			fmt.Fprintf(tw, "%d\t%v\t%v\t%s\t%s\n", step.Index, step.Layer, step.Input, output, status)
		}
		if final, ok := r.Steps.Final(); ok {
			fmt.Fprintf(tw, "final output: %v\n", final)
		}
	}
	return tw.Flush()
}

type jsonStep struct {
	Index  int          `json:"index"`
	Type   string       `json:"type"`
	Layer  string       `json:"layer"`
	Input  tensor.Shape `json:"input"`
	OK     bool         `json:"ok"`
	Output tensor.Shape `json:"output"`
	Error  string       `json:"error,omitempty"`
}

type jsonReport struct {
	Source string       `json:"source"`
	Mode   string       `json:"mode"`
	Input  tensor.Shape `json:"input"`
	Error  string       `json:"error,omitempty"`
	Steps  []jsonStep   `json:"steps"`
	Final  tensor.Shape `json:"final,omitempty"`
}

// renderJSON writes all reports as one indented JSON array.
func renderJSON(w io.Writer, reports []report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		jr := jsonReport{
			Source: r.Source,
			Mode:   r.Mode.String(),
			Input:  r.Input,
			Steps:  make([]jsonStep, 0, len(r.Steps)),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		for _, step := range r.Steps {
			js := jsonStep{
				Index:  step.Index,
				Input:  step.Input,
				OK:     step.OK(),
				Output: step.Output,
				Error:  step.Message(),
			}
			if step.Layer != nil {
				js.Type = step.Layer.ID()
				js.Layer = step.Layer.String()
			}
			jr.Steps = append(jr.Steps, js)
		}
		jr.Final, _ = r.Steps.Final()
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
