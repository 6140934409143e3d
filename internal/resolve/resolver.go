// Package resolve locates the value for a semantic field inside a record
// whose column names are not known in advance. Headers drift between
// exports (language, abbreviation, accentuation, synonyms), so lookup is
// fuzzy: an exact pass over normalized keys first, then a substring pass.
package resolve

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/normalize"
)

// Candidates shorter than this (after normalization) are skipped in the
// partial pass: matching "id" as a substring would hit almost anything.
const minPartialLen = 3

// Field finds the best-matching field for the given candidate key names,
// most-preferred first, and returns its value coerced to a trimmed string.
// Forbidden terms disqualify a record key when its normalized form equals
// or contains the term. A miss is not an error: the empty string means
// "field absent" and callers decide whether that invalidates the row.
//
// The exact pass always wins over the partial pass; within a pass the
// candidate order dominates over record-key order.
func Field(rec models.Record, candidates []string, forbidden ...string) string {
	if len(rec) == 0 {
		return ""
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	// Record key order is only a tie-break, but Go maps iterate randomly,
	// so sort once for deterministic results.
	sort.Strings(keys)

	normKeys := make([]string, len(keys))
	for i, k := range keys {
		normKeys[i] = normalize.Key(k)
	}
	normForbidden := make([]string, 0, len(forbidden))
	for _, f := range forbidden {
		if nf := normalize.Key(f); nf != "" {
			normForbidden = append(normForbidden, nf)
		}
	}

	disqualified := func(nk string) bool {
		for _, f := range normForbidden {
			if nk == f || strings.Contains(nk, f) {
				return true
			}
		}
		return false
	}

	// Exact pass.
	for _, cand := range candidates {
		nc := normalize.Key(cand)
		for i, nk := range normKeys {
			if nk == nc && !disqualified(nk) {
				return coerce(rec[keys[i]])
			}
		}
	}

	// Partial pass.
	for _, cand := range candidates {
		nc := normalize.Key(cand)
		if len(nc) < minPartialLen {
			continue
		}
		for i, nk := range normKeys {
			if strings.Contains(nk, nc) && !disqualified(nk) {
				return coerce(rec[keys[i]])
			}
		}
	}

	return ""
}

// coerce renders a record value as a trimmed string. Sheets commonly emit
// numbers for columns like capacity, so integral floats print without a
// decimal point.
func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}
