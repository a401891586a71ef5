// Command corpus loads scripture sources into a normalized corpus and
// answers queries over it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/juniper-corpus/core/cache"
	"github.com/FocuswithJustin/juniper-corpus/core/engine"
	"github.com/FocuswithJustin/juniper-corpus/core/sqlite"
	"github.com/FocuswithJustin/juniper-corpus/internal/archive"
	"github.com/FocuswithJustin/juniper-corpus/internal/logging"
	"github.com/FocuswithJustin/juniper-corpus/internal/source"
)

const version = "0.1.0"

// stdout receives command output.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for corpus.
type CLI struct {
	Globals

	Build      BuildCmd      `cmd:"" help:"Load the corpus (from cache or sources) and report on it"`
	Books      BooksCmd      `cmd:"" help:"List canonical books"`
	Chapters   ChaptersCmd   `cmd:"" help:"List the chapters of a book"`
	Verses     VersesCmd     `cmd:"" help:"Print the verses of a chapter"`
	Search     SearchCmd     `cmd:"" help:"Search verse text"`
	Ref        RefCmd        `cmd:"" help:"Resolve a reference such as \"John 3:16\""`
	Diag       DiagCmd       `cmd:"" help:"Print corpus diagnostics"`
	Reinit     ReinitCmd     `cmd:"" help:"Discard the cache and rebuild from sources"`
	Invalidate InvalidateCmd `cmd:"" help:"Discard the persisted corpus"`
	Pack       PackCmd       `cmd:"" help:"Pack a directory of sources into a bundle"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// Globals are the flags shared by every command.
type Globals struct {
	JSON         bool          `help:"Print JSON output"`
	DB           string        `name:"db" help:"SQLite cache path (\":memory:\" disables persistence)" env:"CORPUS_DB" default:"corpus.db"`
	Sources      []string      `name:"source" short:"s" help:"Source file, bundle or directory (repeatable)" env:"CORPUS_SOURCES" type:"path"`
	LogLevel     string        `name:"log-level" help:"Log level" env:"CORPUS_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error"`
	LogFormat    string        `name:"log-format" help:"Log format" env:"CORPUS_LOG_FORMAT" default:"text" enum:"text,json"`
	FetchTimeout time.Duration `name:"fetch-timeout" help:"Per-source fetch timeout" default:"10s"`
	NoFill       bool          `name:"no-fill" help:"Leave partially covered chapters unfilled"`
}

// session is an engine plus the resources behind it.
type session struct {
	*engine.Engine
	store cache.Store
}

func (s *session) Close() error {
	return s.store.Close()
}

func (g *Globals) open(ctx context.Context) (*session, error) {
	logging.InitLoggerTo(os.Stderr, logging.ParseLevel(g.LogLevel), logging.ParseFormat(g.LogFormat))

	srcs, err := source.Expand(g.Sources)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}

	var store cache.Store
	if g.DB == "" || g.DB == ":memory:" {
		store = cache.NewMemoryStore()
	} else {
		s, err := sqlite.OpenStore(ctx, g.DB)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		store = s
	}

	cfg := engine.DefaultConfig()
	cfg.FetchTimeout = g.FetchTimeout
	cfg.FillPartialChapters = !g.NoFill
	cfg.Logger = logging.GetLogger()
	return &session{Engine: engine.New(cfg, store, srcs...), store: store}, nil
}

// BuildCmd loads the corpus.
type BuildCmd struct {
	Force bool `help:"Rebuild from sources even when a cached corpus exists"`
}

func (c *BuildCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if c.Force {
		if err := s.ForceReinitialize(ctx); err != nil {
			return err
		}
	}
	d, err := s.Diagnostics(ctx)
	if err != nil {
		return err
	}
	return printDiagnostics(g, d)
}

// BooksCmd lists books.
type BooksCmd struct {
	Testament string `help:"Only list one testament (OT or NT)"`
}

func (c *BooksCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	books, err := s.Books(ctx)
	if err != nil {
		return err
	}
	if c.Testament != "" {
		kept := books[:0]
		for _, b := range books {
			if strings.EqualFold(string(b.Testament), c.Testament) {
				kept = append(kept, b)
			}
		}
		books = kept
	}
	if g.JSON {
		return printJSON(books)
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tNAME\tTESTAMENT\tCHAPTERS")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.ID, b.DisplayName, b.Testament, b.ChapterCount)
	}
	return tw.Flush()
}

// ChaptersCmd lists the chapters of a book.
type ChaptersCmd struct {
	Book string `arg:"" help:"Book id or name"`
}

func (c *ChaptersCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	chapters, err := s.Chapters(ctx, c.Book)
	if err != nil {
		return err
	}
	if len(chapters) == 0 {
		return fmt.Errorf("unknown book: %s", c.Book)
	}
	if g.JSON {
		return printJSON(chapters)
	}
	tw := newTable()
	fmt.Fprintln(tw, "CHAPTER\tVERSES")
	for _, ch := range chapters {
		fmt.Fprintf(tw, "%d\t%d\n", ch.Chapter, ch.VerseCount)
	}
	return tw.Flush()
}

// VersesCmd prints a chapter.
type VersesCmd struct {
	Book    string `arg:"" help:"Book id or name"`
	Chapter int    `arg:"" help:"Chapter number"`
}

func (c *VersesCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	verses, err := s.Verses(ctx, c.Book, c.Chapter)
	if err != nil {
		return err
	}
	return printVerses(g, verses)
}

// SearchCmd searches verse text.
type SearchCmd struct {
	Query []string `arg:"" help:"Text to search for"`
	Limit int      `short:"n" help:"Maximum number of results" default:"50"`
}

func (c *SearchCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	verses, err := s.Search(ctx, strings.Join(c.Query, " "), c.Limit)
	if err != nil {
		return err
	}
	return printVerses(g, verses)
}

// RefCmd resolves a reference.
type RefCmd struct {
	Reference []string `arg:"" help:"Reference, e.g. John 3:16 or Psalms 23"`
}

func (c *RefCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	verses, err := s.ResolveReference(ctx, strings.Join(c.Reference, " "))
	if err != nil {
		return err
	}
	return printVerses(g, verses)
}

// DiagCmd prints diagnostics.
type DiagCmd struct{}

func (c *DiagCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := s.Diagnostics(ctx)
	if err != nil {
		return err
	}
	return printDiagnostics(g, d)
}

// ReinitCmd forces a rebuild.
type ReinitCmd struct{}

func (c *ReinitCmd) Run(ctx context.Context, g *Globals) error {
	return (&BuildCmd{Force: true}).Run(ctx, g)
}

// InvalidateCmd clears the persisted corpus.
type InvalidateCmd struct{}

func (c *InvalidateCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.InvalidateCache(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "cache invalidated")
	return nil
}

// PackCmd bundles sources.
type PackCmd struct {
	Dir string `arg:"" help:"Directory of source documents" type:"existingdir"`
	Out string `arg:"" help:"Bundle path (.tar.xz, .tar.gz or .tar)" type:"path"`
}

func (c *PackCmd) Run(g *Globals) error {
	if err := archive.Pack(c.Dir, c.Out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "packed %s\n", c.Out)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	info := sqlite.GetInfo()
	if g.JSON {
		return printJSON(map[string]string{
			"version":        version,
			"format_version": engine.FormatVersion,
			"sqlite_driver":  info.DriverType,
		})
	}
	fmt.Fprintf(stdout, "corpus version %s (format %s, sqlite %s)\n", version, engine.FormatVersion, info.DriverType)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("corpus"),
		kong.Description("Scripture corpus loader and query tool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
