// Package synth generates deterministic filler verses for chapters that have
// no genuine source text.
//
// Filler text is a pure function of (book, chapter, verse): a template is
// picked from the book's genre pool by position and prefixed with a bracketed
// address, so every filler verse carries a marker the quality assessor
// recognizes.
package synth

import (
	"fmt"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

// DefaultVerseCount is used for chapters missing from the expectation table.
const DefaultVerseCount = 15

// Table maps an OSIS book id to the expected verse count of each chapter.
type Table map[string][]int

// KJV returns the expectation table of the KJV versification. The returned
// table is shared and must not be modified.
func KJV() Table {
	return kjvVerseCounts
}

// Synthesizer produces filler verses against an expectation table.
type Synthesizer struct {
	table Table
}

// New creates a synthesizer. A nil or empty table makes every chapter use
// DefaultVerseCount.
func New(table Table) *Synthesizer {
	return &Synthesizer{table: table}
}

// Default returns a synthesizer over the KJV table.
func Default() *Synthesizer {
	return New(KJV())
}

// Expected returns the table's verse count for a chapter and whether the
// table has an entry for it.
func (s *Synthesizer) Expected(bookID string, chapter int) (int, bool) {
	counts, ok := s.table[bookID]
	if !ok || chapter < 1 || chapter > len(counts) || counts[chapter-1] <= 0 {
		return 0, false
	}
	return counts[chapter-1], true
}

// VerseCount returns the expected verse count for a chapter, falling back to
// DefaultVerseCount.
func (s *Synthesizer) VerseCount(bookID string, chapter int) int {
	if n, ok := s.Expected(bookID, chapter); ok {
		return n
	}
	return DefaultVerseCount
}

// Synthesize returns verseCount filler verses for a chapter, numbered from 1.
// A non-positive verseCount uses VerseCount.
func (s *Synthesizer) Synthesize(book canon.Book, chapter, verseCount int) []ir.Verse {
	if verseCount <= 0 {
		verseCount = s.VerseCount(book.ID, chapter)
	}
	out := make([]ir.Verse, 0, verseCount)
	for v := 1; v <= verseCount; v++ {
		out = append(out, Verse(book, chapter, v))
	}
	return out
}

// Verse returns the filler verse at one address.
func Verse(book canon.Book, chapter, verse int) ir.Verse {
	return ir.Verse{
		ID:          ir.CompositeID(book.ID, chapter, verse),
		BookID:      book.ID,
		BookName:    book.DisplayName,
		Chapter:     chapter,
		Verse:       verse,
		Text:        Text(book, chapter, verse),
		VersionID:   ir.FallbackVersionID,
		VersionName: ir.FallbackVersionName,
	}
}

// Text returns the filler text for one address.
func Text(book canon.Book, chapter, verse int) string {
	pool := templates[book.Genre]
	if len(pool) == 0 {
		pool = templates[canon.GenreDefault]
	}
	i := (book.Order*7 + chapter*3 + verse - 1) % len(pool)
	if i < 0 {
		i = -i
	}
	return fmt.Sprintf("[%s %d:%d] %s", book.DisplayName, chapter, verse, pool[i])
}
