// Package quality classifies verses as genuine or synthesized and aggregates
// a corpus quality percentage.
//
// Classification is heuristic and works by inspection only: filler text
// carries a marker (a bracket or a "to be completed" phrase in one of the
// supported languages), and text shorter than MinGenuineRunes is treated as
// filler too. Legitimately short verses such as "Jesus wept." are therefore
// counted as placeholders; the percentage is diagnostic, not authoritative.
package quality

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

// Class is the outcome of classifying one verse.
type Class int

// Class constants.
const (
	Real Class = iota
	Synthesized
)

func (c Class) String() string {
	if c == Synthesized {
		return "synthesized"
	}
	return "real"
}

// MinGenuineRunes is the shortest trimmed text, in runes, that can be real.
const MinGenuineRunes = 10

// markers are matched case-insensitively against verse text.
var markers = []string{
	"[",
	"]",
	"to be completed",
	"a ser completado",
	"por completar",
	"placeholder",
}

// ClassifyText classifies raw verse text.
func ClassifyText(text string) Class {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinGenuineRunes {
		return Synthesized
	}
	lower := strings.ToLower(trimmed)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return Synthesized
		}
	}
	return Real
}

// Classify classifies a verse by its text.
func Classify(v ir.Verse) Class {
	return ClassifyText(v.Text)
}

// IsReal is shorthand for Classify(v) == Real.
func IsReal(v ir.Verse) bool {
	return Classify(v) == Real
}

// Report aggregates classification over a set of verses.
type Report struct {
	Total        int     `json:"total"`
	Real         int     `json:"real"`
	Placeholders int     `json:"placeholders"`
	Percentage   float64 `json:"percentage"` // 0..100, two decimals
}

// Assess classifies every verse. The percentage is 0 for an empty set.
func Assess(verses []ir.Verse) Report {
	r := Report{Total: len(verses)}
	for _, v := range verses {
		if IsReal(v) {
			r.Real++
		}
	}
	r.Placeholders = r.Total - r.Real
	r.Percentage = Percentage(r.Real, r.Total)
	return r
}

// AssessSnapshot is Assess over a snapshot's verses.
func AssessSnapshot(s *ir.Snapshot) Report {
	if s == nil {
		return Report{}
	}
	return Assess(s.Verses)
}

// Percentage returns genuine/total as a percentage rounded to two decimals.
func Percentage(genuine, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(genuine)*10000/float64(total)) / 100
}
