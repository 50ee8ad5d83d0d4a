package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"funding/internal/core"
	"funding/internal/sources"
)

// Source reads funding rows from a local CSV or Excel workbook.
type Source struct {
	path string
}

var _ sources.RecordSource = (*Source)(nil)

// New returns a Source for path. The format is chosen by extension:
// .xlsx and .xlsm use the first worksheet; everything else, including legacy
// ".xls" exports that are really delimited text, is read as CSV.
func New(path string) *Source {
	return &Source{path: path}
}

// Name implements sources.RecordSource.
func (s *Source) Name() string {
	return "file:" + filepath.Base(s.path)
}

// LoadRecords implements sources.RecordSource.
func (s *Source) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(f)
	default:
		return ReadCSV(f)
	}
}

// ReadCSV parses delimited text with a header row. Rows with the wrong number
// of fields are kept; missing trailing fields become empty.
func ReadCSV(r io.Reader) ([]core.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sources.ErrNoHeader
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	h, err := sources.ParseHeader(head)
	if err != nil {
		return nil, err
	}
	h.WarnMissing("csv")

	var out []core.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(out)+2, err)
		}
		if sources.Blank(row) {
			continue
		}
		out = append(out, h.Raw(row))
	}
	return out, nil
}

// ReadWorkbook parses the first worksheet of an Excel workbook. Cells are read
// unformatted; numeric date cells are converted from Excel serials to ISO dates.
func ReadWorkbook(r io.Reader) ([]core.RawRecord, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, sources.ErrNoHeader
	}
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, sources.ErrNoHeader
	}
	h, err := sources.ParseHeader(rows[0])
	if err != nil {
		return nil, err
	}
	h.WarnMissing("workbook")

	var date1904 bool
	if props, err := wb.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	dateCol, hasDate := h[core.ColDate]

	out := make([]core.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if sources.Blank(row) {
			continue
		}
		if hasDate && dateCol < len(row) {
			row[dateCol] = serialDate(row[dateCol], date1904)
		}
		out = append(out, h.Raw(row))
	}
	return out, nil
}

// serialDate rewrites an Excel date serial as YYYY-MM-DD. Text cells are
// returned unchanged.
func serialDate(cell string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return cell
	}
	return t.Format("2006-01-02")
}
