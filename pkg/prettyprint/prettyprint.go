package prettyprint

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"text/template"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Format is an output format for pretty printing
type Format string

const (
	// TemplateFormat produces text/template-based output
	TemplateFormat Format = "template"
	// JSONFormat produces JSON output
	JSONFormat Format = "json"
	// YAMLFormat produces YAML output
	YAMLFormat Format = "yaml"
	// CSVFormat produces comma-separated output with a header row.
	// It only works for slices of flat records.
	CSVFormat Format = "csv"
)

// Writer preconfigures the write function
type Writer struct {
	Out          io.Writer
	Format       Format
	FormatString string
}

// Write prints the input in the preconfigred way
func (w *Writer) Write(in interface{}) error {
	return Write(w.Out, in, w.Format, w.FormatString)
}

// Write prints an input value using the format to the writer
func Write(out io.Writer, in interface{}, format Format, formatString string) error {
	switch format {
	case TemplateFormat:
		return writeTemplate(out, in, formatString)
	case JSONFormat:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	case YAMLFormat:
		return yaml.NewEncoder(out).Encode(in)
	case CSVFormat:
		return writeCSV(out, in)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeTemplate(out io.Writer, in interface{}, tplc string) error {
	tpl := template.New("template")
	tpl, err := tpl.Parse(tplc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	return tpl.Execute(w, in)
}

// writeCSV flattens a slice of records into tabular output. The header row is
// the sorted union of all record keys; values which aren't scalars are
// re-encoded as JSON.
func writeCSV(out io.Writer, in interface{}) error {
	fc, err := json.Marshal(in)
	if err != nil {
		return xerrors.Errorf("cannot convert input to records: %w", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(fc, &records); err != nil {
		return xerrors.Errorf("CSV output needs a list of records: %w", err)
	}

	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = formatCSVValue(rec[k])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCSVValue(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64, bool:
		return fmt.Sprint(vv)
	default:
		fc, err := json.Marshal(vv)
		if err != nil {
			return fmt.Sprint(vv)
		}
		return string(fc)
	}
}
