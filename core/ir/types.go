package ir

// types.go - corpus data model shared by ingestion, building, caching and
// querying.

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
)

// FallbackVersionID tags verses produced by the synthesizer.
const FallbackVersionID = "fallback"

// FallbackVersionName is the display name paired with FallbackVersionID.
const FallbackVersionName = "Fallback"

// Shape identifies the structural layout of a raw source document.
type Shape string

// Shape constants, in detection order.
const (
	ShapeFlatRecords  Shape = "flat_records"
	ShapeBookList     Shape = "book_list"
	ShapeChapterLists Shape = "chapter_lists"
	ShapeChapterMaps  Shape = "chapter_maps"
	ShapeOSIS         Shape = "osis"
	ShapeZefania      Shape = "zefania"
	ShapeUnrecognized Shape = "unrecognized"
)

// IsRecognized reports whether the shape can be ingested.
func (s Shape) IsRecognized() bool {
	switch s {
	case ShapeFlatRecords, ShapeBookList, ShapeChapterLists, ShapeChapterMaps, ShapeOSIS, ShapeZefania:
		return true
	}
	return false
}

// RawVerse is a verse tuple exactly as read from a source, before its book
// name has been resolved.
type RawVerse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// RawSource is the ingested content of one source document.
type RawSource struct {
	VersionID   string     `json:"version_id"`
	VersionName string     `json:"version_name"`
	Shape       Shape      `json:"shape"`
	Verses      []RawVerse `json:"verses"`
}

// Verse is a canonical verse.
type Verse struct {
	// ID is the composite key "{bookId}-{chapter}-{verse}".
	ID string `json:"id"`

	// BookID is the OSIS id of the canonical book.
	BookID string `json:"book_id"`

	// BookName is the display name of the canonical book.
	BookName string `json:"book_name"`

	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`

	// VersionID and VersionName identify the source the text came from.
	VersionID   string `json:"version_id"`
	VersionName string `json:"version_name"`
}

// CompositeID returns the stable merge and lookup key for a verse address.
func CompositeID(bookID string, chapter, verse int) string {
	var sb strings.Builder
	sb.Grow(len(bookID) + 8)
	sb.WriteString(bookID)
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(chapter))
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(verse))
	return sb.String()
}

// ChapterSummary describes one chapter of a book.
type ChapterSummary struct {
	BookID     string `json:"book_id"`
	Chapter    int    `json:"chapter"`
	VerseCount int    `json:"verse_count"`
}

// SourceInfo records the provenance of one source merged into a snapshot.
type SourceInfo struct {
	VersionID   string `json:"version_id"`
	VersionName string `json:"version_name"`
	Shape       Shape  `json:"shape"`
	Accepted    int    `json:"accepted"`
}

// Snapshot is a complete built corpus. It is never mutated after it has been
// handed out; merges and rebuilds produce a new Snapshot.
type Snapshot struct {
	// FormatVersion identifies the registry and template revision the
	// snapshot was built against.
	FormatVersion string `json:"format_version"`

	BuildID string    `json:"build_id"`
	BuiltAt time.Time `json:"built_at"`

	Books   []canon.Book `json:"books"`
	Verses  []Verse      `json:"verses"`
	Sources []SourceInfo `json:"sources,omitempty"`
}

// Len returns the number of verses.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Verses)
}

// VersesByBook groups the snapshot's verses by book id, then chapter. The
// slices alias the snapshot's backing array and must not be modified.
func (s *Snapshot) VersesByBook() map[string]map[int][]Verse {
	out := make(map[string]map[int][]Verse)
	if s == nil {
		return out
	}
	start := 0
	for i := 1; i <= len(s.Verses); i++ {
		if i < len(s.Verses) && s.Verses[i].BookID == s.Verses[start].BookID && s.Verses[i].Chapter == s.Verses[start].Chapter {
			continue
		}
		v := s.Verses[start]
		chapters := out[v.BookID]
		if chapters == nil {
			chapters = make(map[int][]Verse)
			out[v.BookID] = chapters
		}
		chapters[v.Chapter] = s.Verses[start:i:i]
		start = i
	}
	return out
}

// SortVerses orders verses canonically: book order, chapter, verse.
// Verses of unknown books sort last by id.
func SortVerses(verses []Verse) {
	order := func(id string) int {
		if b, ok := canon.ByID(id); ok {
			return b.Order
		}
		return canon.Len() + 1
	}
	sort.SliceStable(verses, func(i, j int) bool {
		a, b := verses[i], verses[j]
		if a.BookID != b.BookID {
			oa, ob := order(a.BookID), order(b.BookID)
			if oa != ob {
				return oa < ob
			}
			return a.BookID < b.BookID
		}
		if a.Chapter != b.Chapter {
			return a.Chapter < b.Chapter
		}
		return a.Verse < b.Verse
	})
}
