package output

import (
	"strings"

	"github.com/fatih/color"

	"github.com/sonemaro/loctor/pkg/scanner"
	"github.com/sonemaro/loctor/pkg/util"
)

// formatTable renders per-extension rows plus a total row as an aligned table.
func (f *formatter) formatTable(result *scanner.RunResult) (string, error) {
	f.log.Debug("Formatting table output")

	rows := sortedRows(result)

	cells := make([][3]string, 0, len(rows)+1)
	for _, r := range rows {
		name := r.Extension
		if name == string(scanner.NoExtension) {
			name = noExtensionLabel
		}
		cells = append(cells, [3]string{
			name,
			util.FormatCount(r.Files),
			util.FormatCount(r.Lines),
		})
	}
	totalRow := [3]string{
		"Total",
		util.FormatCount(result.TotalFiles),
		util.FormatCount(result.TotalLines),
	}

	header := [3]string{"Extension", "Files", "Lines"}
	widths := [3]int{len(header[0]), len(header[1]), len(header[2])}
	for _, cell := range append(cells, totalRow) {
		for i := range widths {
			if len(cell[i]) > widths[i] {
				widths[i] = len(cell[i])
			}
		}
	}

	// Pad on plain text, colorize afterwards, so ANSI escapes cannot skew
	// the column alignment.
	pad := func(s string, width int, left bool) string {
		fill := strings.Repeat(" ", width-len(s))
		if left {
			return s + fill
		}
		return fill + s
	}

	var builder strings.Builder
	writeRow := func(cell [3]string, colorize func(string) string) {
		ext := pad(cell[0], widths[0], true)
		if colorize != nil {
			ext = colorize(ext)
		}
		builder.WriteString(" " + ext +
			"  " + pad(cell[1], widths[1], false) +
			"  " + pad(cell[2], widths[2], false) + "\n")
	}
	rule := " " + strings.Repeat("-", widths[0]+widths[1]+widths[2]+4) + "\n"

	var headerColor, extColor, totalColor func(string) string
	if f.config.WithColors {
		bold := color.New(color.Bold)
		blue := color.New(color.FgBlue)
		headerColor = func(s string) string { return bold.Sprint(s) }
		extColor = func(s string) string { return blue.Sprint(s) }
		totalColor = headerColor
	}

	writeRow(header, headerColor)
	builder.WriteString(rule)
	for _, cell := range cells {
		writeRow(cell, extColor)
	}
	builder.WriteString(rule)
	writeRow(totalRow, totalColor)

	return builder.String(), nil
}
