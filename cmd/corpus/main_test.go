package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/engine"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

const john316 = "For God so loved the world, that he gave his only begotten Son"

const kjvDoc = `{"verses": [
	{"book": "John", "chapter": 3, "verse": 16, "text": "` + john316 + `"},
	{"book": "Ruth", "chapter": 1, "verse": 16, "text": "And Ruth said, Intreat me not to leave thee"}
]}`

// Test helper functions

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func testGlobals(t *testing.T, sources ...string) *Globals {
	t.Helper()
	return &Globals{
		JSON:         true,
		DB:           filepath.Join(t.TempDir(), "corpus.db"),
		Sources:      sources,
		LogLevel:     "error",
		LogFormat:    "text",
		FetchTimeout: 5 * time.Second,
	}
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	createTestFile(t, dir, "kjv.json", kjvDoc)
	return dir
}

func decode[T any](t *testing.T, buf *bytes.Buffer) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf.String())
	}
	buf.Reset()
	return v
}

func TestVersionCmd_Run(t *testing.T) {
	out := captureOutput(t)
	if err := (&VersionCmd{}).Run(&Globals{}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), version) || !strings.Contains(out.String(), engine.FormatVersion) {
		t.Errorf("output = %q", out.String())
	}
}

func TestBooksCmd_Run(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	g := testGlobals(t)
	g.DB = ":memory:"

	if err := (&BooksCmd{}).Run(ctx, g); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if books := decode[[]canon.Book](t, out); len(books) != canon.Len() {
		t.Errorf("books = %d, want %d", len(books), canon.Len())
	}

	if err := (&BooksCmd{Testament: "nt"}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	nt := decode[[]canon.Book](t, out)
	if len(nt) != 27 || nt[0].ID != "Matt" {
		t.Errorf("NT books = %d starting %+v", len(nt), nt[0])
	}

	g.JSON = false
	if err := (&BooksCmd{}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Genesis") || !strings.HasPrefix(out.String(), "ID") {
		t.Errorf("table output = %q", out.String())
	}
}

func TestRefCmd_Run(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	g := testGlobals(t, sourceDir(t))

	if err := (&RefCmd{Reference: []string{"John", "3:16"}}).Run(ctx, g); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	verses := decode[[]ir.Verse](t, out)
	if len(verses) != 1 || verses[0].Text != john316 || verses[0].VersionID != "kjv" {
		t.Errorf("verses = %+v", verses)
	}

	if err := (&RefCmd{Reference: []string{"Nowhere", "1:1"}}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if verses := decode[[]ir.Verse](t, out); len(verses) != 0 {
		t.Errorf("unknown reference = %+v, want none", verses)
	}

	g.JSON = false
	if err := (&RefCmd{Reference: []string{"John 3:16"}}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if want := "John 3:16  " + john316; !strings.Contains(out.String(), want) {
		t.Errorf("text output = %q, want %q", out.String(), want)
	}
}

func TestSearchCmd_Run(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	g := testGlobals(t, sourceDir(t))

	if err := (&SearchCmd{Query: []string{"begotten"}, Limit: 3}).Run(ctx, g); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	verses := decode[[]ir.Verse](t, out)
	if len(verses) != 1 || verses[0].ID != "John-3-16" {
		t.Errorf("verses = %+v", verses)
	}
}

func TestChaptersAndVersesCmd_Run(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	g := testGlobals(t)

	if err := (&ChaptersCmd{Book: "Ruth"}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if chapters := decode[[]ir.ChapterSummary](t, out); len(chapters) != 4 {
		t.Errorf("Ruth chapters = %d, want 4", len(chapters))
	}

	if err := (&ChaptersCmd{Book: "Hezekiah"}).Run(ctx, g); err == nil {
		t.Error("ChaptersCmd accepted an unknown book")
	}

	if err := (&VersesCmd{Book: "Ruth", Chapter: 1}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if verses := decode[[]ir.Verse](t, out); len(verses) == 0 || verses[0].ID != "Ruth-1-1" {
		t.Errorf("Ruth 1 = %+v", verses)
	}
}

func TestBuildDiagReinitInvalidate(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	g := testGlobals(t, sourceDir(t))

	if err := (&BuildCmd{}).Run(ctx, g); err != nil {
		t.Fatalf("build: %v", err)
	}
	built := decode[engine.Diagnostics](t, out)
	if built.FromCache || built.RealVerses != 2 {
		t.Errorf("build = %+v", built)
	}

	// A second invocation over the same database is served from it.
	if err := (&DiagCmd{}).Run(ctx, g); err != nil {
		t.Fatalf("diag: %v", err)
	}
	diag := decode[engine.Diagnostics](t, out)
	if !diag.FromCache || diag.BuildID != built.BuildID || diag.State != engine.Ready {
		t.Errorf("diag = %+v, want cached build %s", diag, built.BuildID)
	}

	if err := (&ReinitCmd{}).Run(ctx, g); err != nil {
		t.Fatalf("reinit: %v", err)
	}
	rebuilt := decode[engine.Diagnostics](t, out)
	if rebuilt.FromCache || rebuilt.BuildID == built.BuildID || !rebuilt.BuiltAt.After(built.BuiltAt) {
		t.Errorf("reinit = %+v", rebuilt)
	}

	if err := (&InvalidateCmd{}).Run(ctx, g); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if !strings.Contains(out.String(), "cache invalidated") {
		t.Errorf("invalidate output = %q", out.String())
	}
	out.Reset()

	if err := (&DiagCmd{}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if after := decode[engine.Diagnostics](t, out); after.FromCache {
		t.Error("diag after invalidate was served from cache")
	}
}

func TestPackCmd_Run(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	bundle := filepath.Join(t.TempDir(), "bibles.tar.xz")

	if err := (&PackCmd{Dir: sourceDir(t), Out: bundle}).Run(&Globals{}); err != nil {
		t.Fatalf("pack: %v", err)
	}
	out.Reset()

	g := testGlobals(t, bundle)
	if err := (&RefCmd{Reference: []string{"John 3:16"}}).Run(ctx, g); err != nil {
		t.Fatal(err)
	}
	if verses := decode[[]ir.Verse](t, out); len(verses) != 1 || verses[0].Text != john316 {
		t.Errorf("verses from bundle = %+v", verses)
	}
}

func TestMissingSource(t *testing.T) {
	g := testGlobals(t, filepath.Join(t.TempDir(), "missing.json"))
	if err := (&DiagCmd{}).Run(context.Background(), g); err == nil {
		t.Error("DiagCmd accepted a missing source path")
	}
}

func TestParse(t *testing.T) {
	t.Setenv("CORPUS_DB", "/tmp/env.db")
	t.Setenv("CORPUS_LOG_LEVEL", "debug")

	var cli CLI
	parser, err := kong.New(&cli, kong.Name("corpus"), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New() error: %v", err)
	}
	if _, err := parser.Parse([]string{"search", "so", "loved", "-n", "5", "--json"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cli.Search.Limit != 5 || strings.Join(cli.Search.Query, " ") != "so loved" || !cli.JSON {
		t.Errorf("search flags = %+v json=%v", cli.Search, cli.JSON)
	}
	if cli.DB != "/tmp/env.db" || cli.LogLevel != "debug" || cli.FetchTimeout != 10*time.Second {
		t.Errorf("globals = %+v", cli.Globals)
	}

	if _, err := parser.Parse([]string{"diag", "--log-format", "xml"}); err == nil {
		t.Error("Parse() accepted an unknown log format")
	}
}
