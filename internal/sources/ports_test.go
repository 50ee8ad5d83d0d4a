package sources

import "testing"

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]string{"\ufeffDate", " Startup ", "Investors", "extra", "Amount"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h["date"] != 0 || h["startup"] != 1 || h["investors"] != 2 || h["amount"] != 4 {
		t.Fatalf("unexpected mapping: %v", h)
	}
	missing := h.Missing()
	if len(missing) != 4 {
		t.Fatalf("expected vertical, subvertical, city, round missing; got %v", missing)
	}

	if _, err := ParseHeader(nil); err != ErrNoHeader {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
	if _, err := ParseHeader([]string{"date", "amount"}); err == nil {
		t.Fatalf("expected error without startup column")
	}
}

func TestHeaderRawShortRow(t *testing.T) {
	h, _ := ParseHeader([]string{"startup", "city", "amount"})
	raw := h.Raw([]string{"ola", "bangalore"})
	if raw.Startup != "ola" || raw.City != "bangalore" || raw.Amount != "" || raw.Date != "" {
		t.Fatalf("unexpected raw: %+v", raw)
	}
}

func TestBlank(t *testing.T) {
	if !Blank([]string{"", "  "}) || Blank([]string{"", "x"}) {
		t.Fatalf("Blank misreported")
	}
}
