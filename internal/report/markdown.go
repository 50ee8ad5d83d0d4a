package report

import (
	"bytes"
	"fmt"
	"strings"
)

// doc accumulates a markdown document.
type doc struct {
	buf bytes.Buffer
}

func (d *doc) H1(s string) { fmt.Fprintf(&d.buf, "# %s\n\n", s) }
func (d *doc) H2(s string) { fmt.Fprintf(&d.buf, "## %s\n\n", s) }

func (d *doc) PlainText(s string) { fmt.Fprintf(&d.buf, "%s\n\n", s) }

func (d *doc) BulletList(items ...string) {
	for _, it := range items {
		fmt.Fprintf(&d.buf, "- %s\n", cell(it))
	}
	d.buf.WriteByte('\n')
}

// Table writes a pipe table. An empty table writes "No data." instead.
func (d *doc) Table(header []string, rows [][]string) {
	if len(rows) == 0 {
		d.PlainText("_No data._")
		return
	}
	row := func(cells []string) {
		d.buf.WriteString("|")
		for _, c := range cells {
			fmt.Fprintf(&d.buf, " %s |", cell(c))
		}
		d.buf.WriteByte('\n')
	}
	row(header)
	d.buf.WriteString("|")
	for range header {
		d.buf.WriteString(" --- |")
	}
	d.buf.WriteByte('\n')
	for _, r := range rows {
		row(r)
	}
	d.buf.WriteByte('\n')
}

func (d *doc) String() string { return d.buf.String() }

// cell escapes characters that would break a table row or list item.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
