package main

import (
	"testing"

	"funding/internal/normalize"
)

func TestLookupName(t *testing.T) {
	norm := normalize.Default()
	cases := []struct {
		name      string
		argv      []string
		canonical func(string) string
		want      string
	}{
		{"startup synonym", []string{"Flipkart.com"}, norm.Startup, "flipkart"},
		{"startup words joined", []string{"Ola", "Cabs"}, norm.Startup, "ola"},
		{"startup punctuation", []string{" Zomato! "}, norm.Startup, "zomato"},
		{"investor synonym", []string{"Sequoia", "Capital"}, norm.Investors, "sequoia"},
		{"investor lower-cased", []string{"Tiger", "Global"}, norm.Investors, "tiger global"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lookupName(tc.argv, tc.canonical); got != tc.want {
				t.Errorf("lookupName(%q) = %q, want %q", tc.argv, got, tc.want)
			}
		})
	}
}
