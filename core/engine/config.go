package engine

import (
	"log/slog"
	"time"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/corpus"
	"github.com/FocuswithJustin/juniper-corpus/core/synth"
)

// FormatVersion tags snapshots built by this code. Bump it whenever the book
// registry or the filler templates change so stale caches are rebuilt.
const FormatVersion = "corpus-v1"

// DefaultSearchLimit caps a search whose limit is not positive.
const DefaultSearchLimit = 50

// Config contains engine configuration options.
type Config struct {
	// FormatVersion namespaces the persistent cache.
	FormatVersion string

	// BatchSize bounds build work between cooperative yields.
	BatchSize int

	// FetchTimeout bounds each source fetch; a source that has not
	// answered by then is skipped. 0 disables the bound.
	FetchTimeout time.Duration

	// LowQualityThreshold is the quality percentage under which a build
	// logs a warning.
	LowQualityThreshold float64

	// SearchCacheSize is the number of memoized search results per
	// snapshot. 0 disables memoization.
	SearchCacheSize int

	// RefreshDegradedCache merges sources onto a cached snapshot that is
	// not fully genuine.
	RefreshDegradedCache bool

	// FillPartialChapters fills missing verses of partially covered
	// chapters with filler.
	FillPartialChapters bool

	// Resolver and Synthesizer override the defaults when set.
	Resolver    *canon.Resolver
	Synthesizer *synth.Synthesizer

	Logger *slog.Logger
}

// DefaultConfig returns a default engine configuration.
func DefaultConfig() Config {
	return Config{
		FormatVersion:        FormatVersion,
		BatchSize:            corpus.DefaultBatchSize,
		FetchTimeout:         10 * time.Second,
		LowQualityThreshold:  50,
		SearchCacheSize:      128,
		RefreshDegradedCache: true,
		FillPartialChapters:  true,
	}
}
