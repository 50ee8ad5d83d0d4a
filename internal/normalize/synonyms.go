package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Synonyms maps known noisy spellings to one canonical name. Keys and values
// are compared after lower-casing and trimming.
type Synonyms struct {
	Startups  map[string]string `yaml:"startups"`
	Investors map[string]string `yaml:"investors"`
}

// DefaultSynonyms returns the built-in substitution tables.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Startups: map[string]string{
			"flipkart.com":          "flipkart",
			"flipkart pvt ltd":      "flipkart",
			"ola cabs":              "ola",
			"olacabs":               "ola",
			"oyo rooms":             "oyo",
			"oyo":                   "oyo",
			"paytm marketplace":     "paytm",
			"one97":                 "paytm",
			"zomato media":          "zomato",
			"zomato.com":            "zomato",
			"snapdeal.com":          "snapdeal",
			"housing.com":           "housing",
			"redbus.in":             "redbus",
			"inmobi":                "inmobi",
			"urbanclap":             "urban company",
			"urban company pvt ltd": "urban company",
		},
		Investors: map[string]string{
			"sequoia capital india":   "sequoia",
			"sequoia capital":         "sequoia",
			"accel partners":          "accel",
			"accel india":             "accel",
			"softbank group":          "softbank",
			"softbank corp":           "softbank",
			"matrix partners india":   "matrix partners",
			"kalari capital":          "kalari",
			"tiger global management": "tiger global",
			"blume ventures india":    "blume ventures",
			"blume ventures":          "blume ventures",
			"samsung ventures":        "samsung",
			"alibaba group":           "alibaba",
			"google capital":          "google ventures",
			"google ventures":         "google ventures",
		},
	}
}

// Merge returns a copy of s with every entry of extra added or overriding.
func (s Synonyms) Merge(extra Synonyms) Synonyms {
	return Synonyms{
		Startups:  mergeTable(s.Startups, extra.Startups),
		Investors: mergeTable(s.Investors, extra.Investors),
	}
}

func mergeTable(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[canonicalKey(k)] = v
	}
	for k, v := range extra {
		out[canonicalKey(k)] = v
	}
	return out
}

func canonicalKey(k string) string {
	return strings.TrimSpace(strings.ToLower(k))
}

// LoadSynonyms reads a YAML synonym file and merges it over the defaults.
// An empty path returns the defaults.
func LoadSynonyms(path string) (Synonyms, error) {
	defaults := DefaultSynonyms()
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Synonyms{}, fmt.Errorf("read synonyms file: %w", err)
	}
	var extra Synonyms
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return Synonyms{}, fmt.Errorf("parse synonyms file %s: %w", path, err)
	}
	return defaults.Merge(extra), nil
}
