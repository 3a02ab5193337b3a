package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

func newExportData(meta RunMetadata, trace *Trace) ExportData {
	data := ExportData{RunMetadata: meta}
	if trace != nil {
		data.Steps = trace.Len()
		data.Times = trace.Times
		data.States = trace.States
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, trace *Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSONTo(file, meta, trace)
}

func ExportJSONTo(w io.Writer, meta RunMetadata, trace *Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, trace))
}
