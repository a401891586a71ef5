package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FocuswithJustin/juniper-corpus/core/cache"
	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/corpus"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
	"github.com/FocuswithJustin/juniper-corpus/core/quality"
)

// view is an installed snapshot with its derived indexes.
type view struct {
	snap      *ir.Snapshot
	byBook    map[string]map[int][]ir.Verse
	quality   quality.Report
	fromCache bool
	report    *corpus.Report

	searchOnce  sync.Once
	searchOrder []int
	lowered     []string
	memo        *cache.LRU[searchKey, []ir.Verse]
}

type searchKey struct {
	query string
	limit int
}

func newView(snap *ir.Snapshot, fromCache bool, report *corpus.Report, memoSize int) *view {
	v := &view{
		snap:      snap,
		byBook:    snap.VersesByBook(),
		quality:   quality.AssessSnapshot(snap),
		fromCache: fromCache,
		report:    report,
	}
	if memoSize > 0 {
		v.memo = cache.NewLRU(cache.Config[searchKey, []ir.Verse]{MaxSize: memoSize})
	}
	return v
}

// index builds the search order lazily; most processes never search.
func (v *view) index() {
	v.searchOnce.Do(func() {
		verses := v.snap.Verses
		v.lowered = make([]string, len(verses))
		v.searchOrder = make([]int, len(verses))
		for i := range verses {
			v.lowered[i] = strings.ToLower(verses[i].Text)
			v.searchOrder[i] = i
		}
		sort.SliceStable(v.searchOrder, func(a, b int) bool {
			x, y := verses[v.searchOrder[a]], verses[v.searchOrder[b]]
			if x.BookName != y.BookName {
				return x.BookName < y.BookName
			}
			if x.Chapter != y.Chapter {
				return x.Chapter < y.Chapter
			}
			return x.Verse < y.Verse
		})
	})
}

func (v *view) search(query string, limit int) []ir.Verse {
	key := searchKey{query: query, limit: limit}
	if v.memo != nil {
		if hit, ok := v.memo.Get(key); ok {
			return hit
		}
	}

	v.index()
	out := make([]ir.Verse, 0, min(limit, 16))
	for _, i := range v.searchOrder {
		if strings.Contains(v.lowered[i], query) {
			out = append(out, v.snap.Verses[i])
			if len(out) == limit {
				break
			}
		}
	}
	if v.memo != nil {
		v.memo.Put(key, out)
	}
	return out
}

// Books returns the canonical books in order.
func (e *Engine) Books(ctx context.Context) ([]canon.Book, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	books := v.snap.Books
	if len(books) == 0 {
		books = canon.Books()
	}
	return append([]canon.Book(nil), books...), nil
}

// Chapters returns one summary per chapter of the book. An unknown book
// yields an empty slice.
func (e *Engine) Chapters(ctx context.Context, bookID string) ([]ir.ChapterSummary, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	book, ok := e.lookupBook(bookID)
	if !ok {
		return []ir.ChapterSummary{}, nil
	}
	chapters := v.byBook[book.ID]
	out := make([]ir.ChapterSummary, 0, book.ChapterCount)
	for ch := 1; ch <= book.ChapterCount; ch++ {
		out = append(out, ir.ChapterSummary{BookID: book.ID, Chapter: ch, VerseCount: len(chapters[ch])})
	}
	return out, nil
}

// Verses returns the verses of one chapter in verse order. An unknown book
// or chapter yields an empty slice.
func (e *Engine) Verses(ctx context.Context, bookID string, chapter int) ([]ir.Verse, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	book, ok := e.lookupBook(bookID)
	if !ok {
		return []ir.Verse{}, nil
	}
	return clone(v.byBook[book.ID][chapter]), nil
}

// Search returns up to limit verses whose text contains query, ignoring
// case. A blank query matches nothing.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]ir.Verse, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []ir.Verse{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return clone(v.search(q, limit)), nil
}

// ResolveReference returns the verses named by a reference such as
// "John 3:16", "Psalms 23" or "1 Cor 13:4-7". Malformed or unknown
// references yield an empty slice.
func (e *Engine) ResolveReference(ctx context.Context, ref string) ([]ir.Verse, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	parsed, err := ir.ParseReference(ref)
	if err != nil {
		e.log.Debug("malformed reference", "ref", ref, "error", err.Error())
		return []ir.Verse{}, nil
	}

	book, ok := e.resolver.ResolvePartial(parsed.Book)
	if !ok || !book.HasChapter(parsed.Chapter) {
		return []ir.Verse{}, nil
	}

	verses := v.byBook[book.ID][parsed.Chapter]
	if !parsed.HasVerse() {
		return clone(verses), nil
	}
	out := []ir.Verse{}
	for _, vs := range verses {
		if parsed.Contains(vs.Verse) {
			out = append(out, vs)
		}
	}
	return out, nil
}

// Snapshot returns the installed snapshot. It must not be modified.
func (e *Engine) Snapshot(ctx context.Context) (*ir.Snapshot, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return v.snap, nil
}

// Diagnostics describes the installed snapshot.
type Diagnostics struct {
	TotalVerses       int             `json:"total_verses"`
	RealVerses        int             `json:"real_verses"`
	Placeholders      int             `json:"placeholders"`
	QualityPercentage float64         `json:"quality_percentage"`
	FormatVersion     string          `json:"format_version"`
	BuildID           string          `json:"build_id"`
	BuiltAt           time.Time       `json:"built_at"`
	FromCache         bool            `json:"from_cache"`
	State             State           `json:"state"`
	Fingerprint       string          `json:"fingerprint"`
	Sources           []ir.SourceInfo `json:"sources,omitempty"`
	Unresolved        map[string]int  `json:"unresolved,omitempty"`
	Report            *corpus.Report  `json:"report,omitempty"`
}

// Diagnostics initializes the engine if needed and reports on the snapshot.
func (e *Engine) Diagnostics(ctx context.Context) (Diagnostics, error) {
	v, err := e.ensure(ctx)
	if err != nil {
		return Diagnostics{}, err
	}
	d := Diagnostics{
		TotalVerses:       v.quality.Total,
		RealVerses:        v.quality.Real,
		Placeholders:      v.quality.Placeholders,
		QualityPercentage: v.quality.Percentage,
		FormatVersion:     v.snap.FormatVersion,
		BuildID:           v.snap.BuildID,
		BuiltAt:           v.snap.BuiltAt,
		FromCache:         v.fromCache,
		State:             e.State(),
		Fingerprint:       ir.Fingerprint(v.snap),
		Sources:           v.snap.Sources,
		Report:            v.report,
	}
	if v.report != nil && len(v.report.Unresolved) > 0 {
		d.Unresolved = v.report.Unresolved
	}
	return d, nil
}

// lookupBook matches a canonical id ignoring case, then tries the resolver.
func (e *Engine) lookupBook(id string) (canon.Book, bool) {
	if b, ok := canon.ByID(id); ok {
		return b, true
	}
	return e.resolver.Resolve(id)
}

func clone(verses []ir.Verse) []ir.Verse {
	out := make([]ir.Verse, len(verses))
	copy(out, verses)
	return out
}
