package report

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet WriteXLSX creates.
const SheetName = "Pressure Test"

// Heat map anchors for the lowest, middle, and highest score.
var (
	colorLow  = rgb{0xF0, 0x49, 0x6E}
	colorMid  = rgb{0xEB, 0xB8, 0x39}
	colorHigh = rgb{0x0C, 0xD7, 0x9F}
)

type rgb struct{ r, g, b uint8 }

func (c rgb) argb() string {
	return fmt.Sprintf("FF%02X%02X%02X", c.r, c.g, c.b)
}

func lerp(a, b rgb, f float64) rgb {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return rgb{mix(a.r, b.r), mix(a.g, b.g), mix(a.b, b.b)}
}

// ScoreColor maps a 1..10 score onto the red, yellow, green scale and
// returns an ARGB hex string.
func ScoreColor(score float64) string {
	f := (score - 1) / 9
	f = min(max(f, 0), 1)
	if f < 0.5 {
		return lerp(colorLow, colorMid, f*2).argb()
	}
	return lerp(colorMid, colorHigh, (f-0.5)*2).argb()
}

// WriteXLSX writes the grid as a single-sheet workbook with each score cell
// filled by ScoreColor.
func WriteXLSX(w io.Writer, t *Table) error {
	f, err := buildWorkbook(t)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

func buildWorkbook(t *Table) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Depth % / Context length")
	for _, length := range t.ContextLengths {
		header.AddCell().SetInt(length)
	}

	styles := make(map[string]*xlsx.Style)
	for _, depth := range t.DepthPercents {
		row := sheet.AddRow()
		row.AddCell().SetInt(depth)
		for _, v := range t.Row(depth) {
			cell := row.AddCell()
			if v == nil {
				continue
			}
			cell.SetFloat(*v)

			color := ScoreColor(*v)
			st, ok := styles[color]
			if !ok {
				st = xlsx.NewStyle()
				st.Fill = *xlsx.NewFill("solid", color, color)
				st.ApplyFill = true
				styles[color] = st
			}
			cell.SetStyle(st)
		}
	}
	return f, nil
}
