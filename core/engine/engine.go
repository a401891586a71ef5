// Package engine is the public query surface over a scripture corpus.
//
// An Engine starts Uninitialized. The first query triggers a single shared
// initialization (load the persisted snapshot, or fetch, ingest and build
// from sources, then persist) and the engine becomes Ready. Concurrent
// callers wait on the same in-flight build. Snapshots are immutable; a
// forced reinitialization swaps in a new one.
//
// Public operations never surface ingestion or cache failures. Those
// degrade to synthesized content and are logged; the only error a caller
// sees is its own context's.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FocuswithJustin/juniper-corpus/core/cache"
	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/corpus"
	"github.com/FocuswithJustin/juniper-corpus/core/ingest"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
	"github.com/FocuswithJustin/juniper-corpus/core/quality"
	"github.com/FocuswithJustin/juniper-corpus/internal/logging"
)

// Source supplies one raw source document.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Version returns the id and display name stamped on its verses.
	Version() (id, name string)

	// Fetch returns the raw document: JSON or XML text, decoded JSON
	// values or a parsed XML tree.
	Fetch(ctx context.Context) (any, error)
}

// State is the engine lifecycle state.
type State int

// State constants.
const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uninitialized":
		*s = Uninitialized
	case "initializing":
		*s = Initializing
	case "ready":
		*s = Ready
	default:
		return fmt.Errorf("unknown engine state %q", text)
	}
	return nil
}

// Engine answers corpus queries. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	sources  []Source
	cache    *cache.Manager
	builder  *corpus.Builder
	resolver *canon.Resolver
	log      *slog.Logger

	group singleflight.Group

	// cacheMu orders persisted cache access against generation changes.
	// Lock order is cacheMu, then mu.
	cacheMu sync.Mutex

	mu      sync.RWMutex
	state   State
	gen     uint64
	current *view

	stampMu   sync.Mutex
	lastStamp time.Time
}

// New creates an engine over sources, persisting through store. A nil store
// keeps snapshots in memory only.
func New(cfg Config, store cache.Store, sources ...Source) *Engine {
	def := DefaultConfig()
	if cfg.FormatVersion == "" {
		cfg.FormatVersion = def.FormatVersion
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Resolver == nil {
		cfg.Resolver = canon.DefaultResolver()
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}

	log := logging.Or(cfg.Logger).With("component", "engine")
	e := &Engine{
		cfg:      cfg,
		sources:  sources,
		cache:    cache.NewManager(store, cfg.FormatVersion, log),
		resolver: cfg.Resolver,
		log:      log,
	}
	e.builder = corpus.NewBuilder(corpus.Options{
		FormatVersion: cfg.FormatVersion,
		BatchSize:     cfg.BatchSize,
		FillPartial:   cfg.FillPartialChapters,
		Resolver:      cfg.Resolver,
		Synthesizer:   cfg.Synthesizer,
		Now:           e.stamp,
		Logger:        log,
	})
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// ensure returns the ready view, initializing it if needed. Callers that
// arrive during initialization share the in-flight build.
func (e *Engine) ensure(ctx context.Context) (*view, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	v, gen := e.current, e.gen
	e.mu.RUnlock()
	if v != nil {
		return v, nil
	}

	// The build outlives any single caller: it is shared, and abandoning
	// it half way would only mean redoing it on the next call.
	buildCtx := context.WithoutCancel(ctx)
	ch := e.group.DoChan("init-"+strconv.FormatUint(gen, 10), func() (any, error) {
		return e.initialize(buildCtx, gen)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*view), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) initialize(ctx context.Context, gen uint64) (*view, error) {
	e.mu.Lock()
	if e.current != nil && e.gen == gen {
		v := e.current
		e.mu.Unlock()
		return v, nil
	}
	if e.gen == gen {
		e.state = Initializing
	}
	e.mu.Unlock()

	v, err := e.load(logging.WithGeneration(ctx, gen), gen)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.gen == gen {
			e.state = Uninitialized
		}
		return nil, err
	}
	// A reinitialization that raced this build has already moved on; its
	// own build installs the newer view.
	if e.gen == gen {
		e.current = v
		e.state = Ready
	}
	return v, nil
}

// load produces the view for one initialization: the cached snapshot when
// usable, otherwise a fresh build from sources.
func (e *Engine) load(ctx context.Context, gen uint64) (*view, error) {
	cached, ok, err := e.loadCached(ctx, gen)
	if err != nil {
		e.log.Warn("cache load failed, rebuilding", "error", err.Error())
		ok = false
	}
	if ok {
		e.observe(cached.BuiltAt)
		q := quality.AssessSnapshot(cached)
		if q.Percentage < 100 && e.cfg.RefreshDegradedCache && len(e.sources) > 0 {
			if v := e.refresh(ctx, gen, cached, q); v != nil {
				return v, nil
			}
		}
		v := newView(cached, true, nil, e.cfg.SearchCacheSize)
		e.checkQuality(v)
		return v, nil
	}

	raws := e.fetchAll(ctx)
	snap, rep, err := e.builder.Build(ctx, raws)
	if err != nil {
		return nil, err
	}
	e.persist(ctx, gen, snap)
	v := newView(snap, false, &rep, e.cfg.SearchCacheSize)
	e.checkQuality(v)
	return v, nil
}

// refresh merges sources onto a degraded cached snapshot. It returns nil
// when the merge brought in no new genuine verses.
func (e *Engine) refresh(ctx context.Context, gen uint64, cached *ir.Snapshot, q quality.Report) *view {
	raws := e.fetchAll(ctx)
	if len(raws) == 0 {
		return nil
	}
	merged, rep, err := e.builder.Merge(ctx, cached, raws)
	if err != nil || rep.Quality.Real <= q.Real {
		return nil
	}
	e.log.Info("refreshed degraded cache",
		"previous_quality_pct", q.Percentage,
		"quality_pct", rep.Quality.Percentage,
	)
	e.persist(ctx, gen, merged)
	v := newView(merged, false, &rep, e.cfg.SearchCacheSize)
	e.checkQuality(v)
	return v
}

// loadCached reads the persisted snapshot for gen. A generation that has
// been reset sees a miss.
func (e *Engine) loadCached(ctx context.Context, gen uint64) (*ir.Snapshot, bool, error) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if !e.isCurrent(gen) {
		return nil, false, nil
	}
	return e.cache.Load(ctx)
}

// persist saves snap unless gen was reset while it was being built.
func (e *Engine) persist(ctx context.Context, gen uint64, snap *ir.Snapshot) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if !e.isCurrent(gen) {
		e.log.Debug("stale build not persisted", "build_id", snap.BuildID, "generation", gen)
		return
	}
	if err := e.cache.Save(ctx, snap); err != nil {
		e.log.Warn("cache save failed", "build_id", snap.BuildID, "error", err.Error())
	}
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen == gen
}

func (e *Engine) checkQuality(v *view) {
	if v.quality.Percentage < e.cfg.LowQualityThreshold {
		logging.LowQuality(e.log, v.quality.Percentage, e.cfg.LowQualityThreshold,
			"build_id", v.snap.BuildID,
			"from_cache", v.fromCache,
		)
	}
}

// fetchAll fetches and ingests every source concurrently. Sources that fail,
// stall past FetchTimeout or yield nothing usable are logged and left out.
func (e *Engine) fetchAll(ctx context.Context) []ir.RawSource {
	results := make([]*ir.RawSource, len(e.sources))
	var g errgroup.Group
	for i, src := range e.sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = e.fetchOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ir.RawSource, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

type fetchResult struct {
	raw any
	err error
}

func (e *Engine) fetchOne(ctx context.Context, src Source) *ir.RawSource {
	fctx, cancel := ctx, context.CancelFunc(func() {})
	if e.cfg.FetchTimeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
	}
	defer cancel()

	// Fetch runs on its own goroutine so a source that ignores its
	// context is still abandoned on time.
	ch := make(chan fetchResult, 1)
	go func() {
		raw, err := src.Fetch(fctx)
		ch <- fetchResult{raw: raw, err: err}
	}()

	var res fetchResult
	select {
	case res = <-ch:
	case <-fctx.Done():
		logging.SourceSkipped(e.log, src.Name(), "fetch", fctx.Err())
		return nil
	}
	if res.err != nil {
		logging.SourceSkipped(e.log, src.Name(), "fetch", res.err)
		return nil
	}

	parsed, err := ingest.Parse(res.raw)
	if err != nil {
		logging.SourceSkipped(e.log, src.Name(), "ingest", err)
		return nil
	}
	if len(parsed.Verses) == 0 {
		logging.SourceSkipped(e.log, src.Name(), "ingest", nil, "shape", string(parsed.Shape), "dropped", parsed.Dropped)
		return nil
	}
	if parsed.Dropped > 0 {
		e.log.Debug("source records dropped", "source", src.Name(), "dropped", parsed.Dropped)
	}

	id, name := src.Version()
	return &ir.RawSource{VersionID: id, VersionName: name, Shape: parsed.Shape, Verses: parsed.Verses}
}

// stamp returns the build timestamp, strictly later than any snapshot this
// engine has built or loaded.
func (e *Engine) stamp() time.Time {
	e.stampMu.Lock()
	defer e.stampMu.Unlock()
	t := time.Now()
	if !t.After(e.lastStamp) {
		t = e.lastStamp.Add(time.Nanosecond)
	}
	e.lastStamp = t
	return t
}

func (e *Engine) observe(t time.Time) {
	e.stampMu.Lock()
	defer e.stampMu.Unlock()
	if t.After(e.lastStamp) {
		e.lastStamp = t
	}
}

// ForceReinitialize discards the in-memory and persisted snapshot and
// rebuilds from sources. The new snapshot's BuiltAt is strictly later than
// the previous one's.
func (e *Engine) ForceReinitialize(ctx context.Context) error {
	if err := e.reset(ctx); err != nil {
		return err
	}
	_, err := e.ensure(ctx)
	return err
}

// InvalidateCache discards the in-memory and persisted snapshot without
// rebuilding; the next query rebuilds.
func (e *Engine) InvalidateCache(ctx context.Context) error {
	return e.reset(ctx)
}

func (e *Engine) reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	// The cache is cleared before the generation moves on, so a build for
	// the new generation can only ever see an empty cache.
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	// The persisted snapshot may predate this engine; later builds must
	// still stamp after it.
	if meta, ok, err := e.cache.Meta(ctx); err == nil && ok {
		e.observe(meta.BuiltAt)
	}
	if err := e.cache.Invalidate(ctx); err != nil {
		e.log.Warn("cache invalidate failed", "error", err.Error())
	}

	e.mu.Lock()
	if e.current != nil {
		e.observe(e.current.snap.BuiltAt)
	}
	e.gen++
	e.current = nil
	e.state = Uninitialized
	e.mu.Unlock()
	return nil
}
