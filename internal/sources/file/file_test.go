package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"funding/internal/core"
	"funding/internal/sources"
)

const sampleCSV = `date,startup,vertical,subvertical,city,investors,round,amount
2015-01-05,Ola Cabs,Transport,Cab,Bangalore,"Sequoia Capital, Accel Partners",Series A,5
2015-01-20,Flipkart.com,E-Commerce,,Bangalore,Tiger Global,Series B,7

2015-02-02,Oyo Rooms,Hospitality,Budget Hotels,Gurgaon,,Seed,undisclosed
`

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 rows (blank skipped), got %d", len(recs))
	}
	if recs[0].Investors != "Sequoia Capital, Accel Partners" || recs[0].Amount != "5" {
		t.Fatalf("unexpected first row: %+v", recs[0])
	}
	if recs[1].Subvertical != "" || recs[2].Amount != "undisclosed" {
		t.Fatalf("unexpected rows: %+v %+v", recs[1], recs[2])
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err != sources.ErrNoHeader {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestSourceLoadsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funding.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src := New(path)
	recs, err := src.LoadRecords(context.Background())
	if err != nil || len(recs) != 3 {
		t.Fatalf("load: %d rows, err=%v", len(recs), err)
	}
	if src.Name() != "file:funding.csv" {
		t.Fatalf("unexpected name %q", src.Name())
	}

	if _, err := New(filepath.Join(t.TempDir(), "missing.csv")).LoadRecords(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSourceLoadsWorkbook(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Date", "Startup", "Investors", "Amount"},
		{"2016-03-01", "Paytm Marketplace", "Alibaba Group", "40"},
		{"2016-04-01", "Zomato.com", "", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "funding.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs, err := New(path).LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(recs))
	}
	if recs[0].Startup != "Paytm Marketplace" || recs[0].Amount != "40" || recs[1].Investors != "" {
		t.Fatalf("unexpected rows: %+v", recs)
	}
}

func TestSourceLoadsWorkbookDateCells(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Date", "Startup", "Amount"},
		{time.Date(2015, time.January, 9, 0, 0, 0, 0, time.UTC), "Ola Cabs", 400},
		{"13/05/2016", "Oyo Rooms", "25"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "funding.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs, err := New(path).LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(recs))
	}
	if recs[0].Date != "2015-01-09" {
		t.Fatalf("date cell read as %q, want 2015-01-09", recs[0].Date)
	}
	first := core.Coerce(recs[0])
	if !first.HasPeriod || first.Year != 2015 || first.Month != 1 {
		t.Fatalf("unexpected period: %+v", first)
	}
	if first.Amount.String() != "400" {
		t.Fatalf("amount = %s, want 400", first.Amount)
	}
	if second := core.Coerce(recs[1]); !second.HasPeriod || second.Year != 2016 || second.Month != 5 {
		t.Fatalf("text date not parsed: %+v", second)
	}
}

func TestSerialDate(t *testing.T) {
	cases := []struct {
		in       string
		date1904 bool
		want     string
	}{
		{"42013", false, "2015-01-09"},
		{"42013.5", false, "2015-01-09"},
		{"40551", true, "2015-01-09"},
		{"2015-01-09", false, "2015-01-09"},
		{"1/9/2015", false, "1/9/2015"},
		{"", false, ""},
		{"-3", false, "-3"},
	}
	for _, tc := range cases {
		if got := serialDate(tc.in, tc.date1904); got != tc.want {
			t.Fatalf("serialDate(%q, %v) = %q, want %q", tc.in, tc.date1904, got, tc.want)
		}
	}
}
