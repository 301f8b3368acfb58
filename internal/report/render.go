package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatYAML  = "yaml"
	FormatXLSX  = "xlsx"
)

// Formats lists every supported format.
var Formats = []string{FormatTable, FormatCSV, FormatYAML, FormatXLSX}

// Render writes t to w in format.
func Render(w io.Writer, format string, t *Table) error {
	switch format {
	case "", FormatTable:
		return WriteText(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatYAML:
		return WriteYAML(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return eris.Errorf("report: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteText writes an aligned grid with thousands-separated column headers.
func WriteText(w io.Writer, t *Table) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"depth%"}
	for _, length := range t.ContextLengths {
		header = append(header, p.Sprintf("%d", length))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, depth := range t.DepthPercents {
		cols := []string{strconv.Itoa(depth)}
		for _, v := range t.Row(depth) {
			if v == nil {
				cols = append(cols, "-")
				continue
			}
			cols = append(cols, p.Sprintf("%.1f", *v))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: write table")
	}

	if mean, ok := t.Mean(); ok {
		if _, err := p.Fprintf(w, "\n%d records, mean score %.2f\n", t.Records, mean); err != nil {
			return eris.Wrap(err, "report: write table")
		}
	}
	return nil
}

// WriteCSV writes the grid with a header row of context lengths. Missing
// cells are empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := []string{"depth_percent"}
	for _, length := range t.ContextLengths {
		header = append(header, strconv.Itoa(length))
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv")
	}

	for _, depth := range t.DepthPercents {
		row := []string{strconv.Itoa(depth)}
		for _, v := range t.Row(depth) {
			if v == nil {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(*v, 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write csv")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

type yamlReport struct {
	Model          string    `yaml:"model,omitempty"`
	Version        int       `yaml:"version,omitempty"`
	Records        int       `yaml:"records"`
	MeanScore      *float64  `yaml:"mean_score"`
	ContextLengths []int     `yaml:"context_lengths"`
	Rows           []yamlRow `yaml:"rows"`
}

type yamlRow struct {
	DepthPercent int        `yaml:"depth_percent"`
	Scores       []*float64 `yaml:"scores"`
}

// WriteYAML writes the grid as a YAML document. Missing cells are null.
func WriteYAML(w io.Writer, t *Table) error {
	doc := yamlReport{
		Model:          t.Filter.Model,
		Version:        t.Filter.Version,
		Records:        t.Records,
		ContextLengths: t.ContextLengths,
	}
	if mean, ok := t.Mean(); ok {
		doc.MeanScore = &mean
	}
	for _, depth := range t.DepthPercents {
		doc.Rows = append(doc.Rows, yamlRow{DepthPercent: depth, Scores: t.Row(depth)})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: close yaml encoder")
}
