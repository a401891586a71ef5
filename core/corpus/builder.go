// Package corpus assembles canonical snapshots from raw verse tuples.
//
// The builder resolves each tuple's book name, merges tuples under their
// composite id (genuine text replaces filler, never the reverse), and then
// fills every canonical chapter that is empty, or optionally short, with
// synthesized verses. Work is done in bounded batches with a cooperative
// yield between them.
package corpus

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
	"github.com/FocuswithJustin/juniper-corpus/core/quality"
	"github.com/FocuswithJustin/juniper-corpus/core/synth"
	"github.com/FocuswithJustin/juniper-corpus/internal/logging"
)

// DefaultBatchSize is the number of tuples processed between yields.
const DefaultBatchSize = 512

// Options configures a Builder. The zero value is usable.
type Options struct {
	// FormatVersion is stamped on every snapshot.
	FormatVersion string

	// BatchSize bounds the work done between yields. <= 0 uses
	// DefaultBatchSize.
	BatchSize int

	// FillPartial fills missing verse numbers of partially covered chapters
	// up to the expectation table count.
	FillPartial bool

	// Resolver maps source book names; nil uses canon.DefaultResolver().
	Resolver *canon.Resolver

	// Synthesizer produces filler; nil uses synth.Default().
	Synthesizer *synth.Synthesizer

	// Progress, when set, is called at every yield with the number of
	// tuples processed so far and the total.
	Progress func(done, total int)

	// Now returns the build timestamp; nil uses time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Builder builds snapshots. It holds no per-build state and is safe for
// concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder, filling defaults for unset options.
func NewBuilder(opts Options) *Builder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Resolver == nil {
		opts.Resolver = canon.DefaultResolver()
	}
	if opts.Synthesizer == nil {
		opts.Synthesizer = synth.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{opts: opts}
}

// Report describes what a build did with its input.
type Report struct {
	TuplesSeen          int            `json:"tuples_seen"`
	Accepted            int            `json:"accepted"`
	Unresolved          map[string]int `json:"unresolved,omitempty"`
	OutOfRange          int            `json:"out_of_range"`
	Duplicates          int            `json:"duplicates"`
	Replaced            int            `json:"replaced"`
	ChaptersSynthesized int            `json:"chapters_synthesized"`
	GapsFilled          int            `json:"gaps_filled"`
	Quality             quality.Report `json:"quality"`
	Duration            time.Duration  `json:"duration"`
}

// UnresolvedTotal returns the number of tuples dropped for an unknown book.
func (r Report) UnresolvedTotal() int {
	n := 0
	for _, c := range r.Unresolved {
		n += c
	}
	return n
}

// Build assembles a snapshot from sources. The only error is ctx's.
func (b *Builder) Build(ctx context.Context, sources []ir.RawSource) (*ir.Snapshot, Report, error) {
	return b.Merge(ctx, nil, sources)
}

// Merge is Build seeded with the verses of an existing snapshot. The seed is
// not modified.
func (b *Builder) Merge(ctx context.Context, seed *ir.Snapshot, sources []ir.RawSource) (*ir.Snapshot, Report, error) {
	start := time.Now()
	log := logging.LoggerFromContext(ctx, b.opts.Logger)

	st := &buildState{
		verses:   make(map[string]ir.Verse),
		resolved: make(map[string]resolution),
		report:   Report{Unresolved: make(map[string]int)},
	}
	var provenance []ir.SourceInfo
	if seed != nil {
		for _, v := range seed.Verses {
			st.verses[v.ID] = v
		}
		provenance = append(provenance, seed.Sources...)
	}

	total := 0
	for _, src := range sources {
		total += len(src.Verses)
	}

	done := 0
	for _, src := range sources {
		accepted := 0
		for i := 0; i < len(src.Verses); i += b.opts.BatchSize {
			end := min(i+b.opts.BatchSize, len(src.Verses))
			for _, raw := range src.Verses[i:end] {
				if b.mergeTuple(st, src, raw) {
					accepted++
				}
			}
			done += end - i
			if err := b.yield(ctx, done, total); err != nil {
				return nil, Report{}, err
			}
		}
		provenance = append(provenance, ir.SourceInfo{
			VersionID:   src.VersionID,
			VersionName: src.VersionName,
			Shape:       src.Shape,
			Accepted:    accepted,
		})
	}

	for _, name := range sortedNames(st.report.Unresolved) {
		logging.UnresolvedBook(log, name, st.report.Unresolved[name])
	}

	if err := b.fill(ctx, st, done, total); err != nil {
		return nil, Report{}, err
	}

	verses := make([]ir.Verse, 0, len(st.verses))
	for _, v := range st.verses {
		verses = append(verses, v)
	}
	ir.SortVerses(verses)

	snap := &ir.Snapshot{
		FormatVersion: b.opts.FormatVersion,
		BuildID:       uuid.NewString(),
		BuiltAt:       b.opts.Now(),
		Books:         canon.Books(),
		Verses:        verses,
		Sources:       provenance,
	}

	st.report.Quality = quality.Assess(verses)
	st.report.Duration = time.Since(start)
	logging.CorpusBuilt(log, snap.BuildID, snap.Len(), st.report.Quality.Real, st.report.Quality.Percentage, st.report.Duration,
		"sources", len(sources),
		"seeded", seed != nil,
		"chapters_synthesized", st.report.ChaptersSynthesized,
		"gaps_filled", st.report.GapsFilled,
	)
	return snap, st.report, nil
}

type resolution struct {
	book canon.Book
	ok   bool
}

type buildState struct {
	verses   map[string]ir.Verse
	resolved map[string]resolution // memoized per build
	report   Report
}

// mergeTuple applies the merge policy to one tuple and reports whether it
// was stored.
func (b *Builder) mergeTuple(st *buildState, src ir.RawSource, raw ir.RawVerse) bool {
	st.report.TuplesSeen++

	r, seen := st.resolved[raw.Book]
	if !seen {
		book, ok := b.opts.Resolver.Resolve(raw.Book)
		r = resolution{book: book, ok: ok}
		st.resolved[raw.Book] = r
	}
	if !r.ok {
		st.report.Unresolved[strings.TrimSpace(raw.Book)]++
		return false
	}
	if !r.book.HasChapter(raw.Chapter) || raw.Verse < 1 {
		st.report.OutOfRange++
		return false
	}
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		st.report.OutOfRange++
		return false
	}

	incoming := ir.Verse{
		ID:          ir.CompositeID(r.book.ID, raw.Chapter, raw.Verse),
		BookID:      r.book.ID,
		BookName:    r.book.DisplayName,
		Chapter:     raw.Chapter,
		Verse:       raw.Verse,
		Text:        text,
		VersionID:   src.VersionID,
		VersionName: src.VersionName,
	}

	existing, exists := st.verses[incoming.ID]
	switch {
	case !exists:
		st.verses[incoming.ID] = incoming
	case quality.IsReal(incoming) && !quality.IsReal(existing):
		st.verses[incoming.ID] = incoming
		st.report.Replaced++
	default:
		st.report.Duplicates++
		return false
	}
	st.report.Accepted++
	return true
}

// fill synthesizes empty chapters and, with FillPartial, the missing verses
// of partially covered ones. It yields once per book.
func (b *Builder) fill(ctx context.Context, st *buildState, done, total int) error {
	present := make(map[string]map[int]map[int]bool)
	for _, v := range st.verses {
		chapters := present[v.BookID]
		if chapters == nil {
			chapters = make(map[int]map[int]bool)
			present[v.BookID] = chapters
		}
		if chapters[v.Chapter] == nil {
			chapters[v.Chapter] = make(map[int]bool)
		}
		chapters[v.Chapter][v.Verse] = true
	}

	sy := b.opts.Synthesizer
	for _, book := range canon.Books() {
		for ch := 1; ch <= book.ChapterCount; ch++ {
			have := present[book.ID][ch]
			if len(have) == 0 {
				for _, v := range sy.Synthesize(book, ch, 0) {
					st.verses[v.ID] = v
				}
				st.report.ChaptersSynthesized++
				continue
			}
			if !b.opts.FillPartial {
				continue
			}
			expected, ok := sy.Expected(book.ID, ch)
			if !ok {
				continue
			}
			for v := 1; v <= expected; v++ {
				if !have[v] {
					filler := synth.Verse(book, ch, v)
					st.verses[filler.ID] = filler
					st.report.GapsFilled++
				}
			}
		}
		if err := b.yield(ctx, done, total); err != nil {
			return err
		}
	}
	return nil
}

// yield gives other goroutines a chance to run and observes cancellation.
func (b *Builder) yield(ctx context.Context, done, total int) error {
	runtime.Gosched()
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.opts.Progress != nil {
		b.opts.Progress(done, total)
	}
	return nil
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
