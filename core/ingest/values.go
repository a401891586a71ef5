package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
)

// toInt accepts JSON numbers, json.Number, Go integers and numeric strings.
// Fractional values are rejected.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		return toInt(string(t))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if ferr != nil {
				return 0, false
			}
			return floatToInt(f)
		}
		return n, true
	case float64:
		return floatToInt(t)
	case float32:
		return floatToInt(float64(t))
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// intField returns the first key of keys holding an integer.
func intField(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if n, ok := toInt(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// stringField returns the first key of keys holding a non-blank string.
func stringField(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// bookField returns a record's book name. A string name is preferred; a bare
// number is read as a 1-based canonical book ordinal and mapped to its id.
func bookField(m map[string]any) (string, bool) {
	if s, ok := stringField(m, bookKeys); ok {
		return s, true
	}
	if n, ok := intField(m, bookKeys); ok {
		return bookFromOrdinal(n)
	}
	return "", false
}

func bookFromOrdinal(n int) (string, bool) {
	books := canon.Books()
	if n < 1 || n > len(books) {
		return "", false
	}
	return books[n-1].ID, true
}

// verseText extracts text from a verse element: a plain string or an object
// carrying one of textKeys.
func verseText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case map[string]any:
		return stringField(t, textKeys)
	}
	return "", false
}
