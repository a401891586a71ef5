package synth

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/juniper-corpus/core/canon"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
	"github.com/FocuswithJustin/juniper-corpus/core/quality"
)

func mustBook(t *testing.T, id string) canon.Book {
	t.Helper()
	b, ok := canon.ByID(id)
	if !ok {
		t.Fatalf("unknown book %s", id)
	}
	return b
}

func TestKJVTableMatchesRegistry(t *testing.T) {
	table := KJV()
	for _, b := range canon.Books() {
		counts, ok := table[b.ID]
		if !ok {
			t.Errorf("%s missing from table", b.ID)
			continue
		}
		if len(counts) != b.ChapterCount {
			t.Errorf("%s: %d chapters in table, registry says %d", b.ID, len(counts), b.ChapterCount)
		}
	}
}

func TestVerseCount(t *testing.T) {
	s := Default()
	tests := []struct {
		book    string
		chapter int
		want    int
	}{
		{"Ps", 23, 6},
		{"Ps", 119, 176},
		{"John", 3, 36},
		{"Obad", 1, 21},
		{"Ps", 151, DefaultVerseCount},
		{"Nope", 1, DefaultVerseCount},
	}
	for _, tt := range tests {
		if got := s.VerseCount(tt.book, tt.chapter); got != tt.want {
			t.Errorf("VerseCount(%s, %d) = %d, want %d", tt.book, tt.chapter, got, tt.want)
		}
	}

	empty := New(nil)
	if got := empty.VerseCount("Ps", 23); got != DefaultVerseCount {
		t.Errorf("empty table VerseCount = %d, want %d", got, DefaultVerseCount)
	}
	if _, ok := empty.Expected("Ps", 23); ok {
		t.Error("empty table should have no expectations")
	}
}

func TestSynthesize(t *testing.T) {
	s := Default()
	ps := mustBook(t, "Ps")

	verses := s.Synthesize(ps, 23, 0)
	if len(verses) != 6 {
		t.Fatalf("Synthesize(Ps 23) returned %d verses, want 6", len(verses))
	}
	for i, v := range verses {
		if v.Verse != i+1 || v.Chapter != 23 || v.BookID != "Ps" || v.BookName != "Psalms" {
			t.Errorf("verse %d has address %+v", i, v)
		}
		if v.ID != ir.CompositeID("Ps", 23, i+1) {
			t.Errorf("verse %d id = %s", i, v.ID)
		}
		if v.VersionID != ir.FallbackVersionID {
			t.Errorf("verse %d version = %s, want %s", i, v.VersionID, ir.FallbackVersionID)
		}
		if quality.Classify(v) != quality.Synthesized {
			t.Errorf("filler %q classified as real", v.Text)
		}
	}

	if n := len(s.Synthesize(ps, 23, 3)); n != 3 {
		t.Errorf("explicit count gave %d verses, want 3", n)
	}
}

func TestTextDeterministic(t *testing.T) {
	for _, id := range []string{"Gen", "Ps", "Isa", "Matt", "Acts", "Rom", "Rev"} {
		b := mustBook(t, id)
		a := Text(b, 2, 5)
		if a != Text(b, 2, 5) {
			t.Errorf("%s: Text not deterministic", id)
		}
		prefix := "[" + b.DisplayName + " 2:5] "
		if !strings.HasPrefix(a, prefix) {
			t.Errorf("%s: Text = %q, want prefix %q", id, a, prefix)
		}
	}
}

func TestTextUsesGenrePool(t *testing.T) {
	for genre, pool := range templates {
		if len(pool) == 0 {
			t.Errorf("genre %s has an empty pool", genre)
		}
	}

	john := mustBook(t, "John")
	text := Text(john, 1, 1)
	found := false
	for _, tmpl := range templates[canon.GenreGospel] {
		if strings.HasSuffix(text, tmpl) {
			found = true
		}
	}
	if !found {
		t.Errorf("John filler %q not drawn from the gospel pool", text)
	}

	// Adjacent verses rotate through the pool.
	if Text(john, 1, 1) == Text(john, 1, 2) {
		t.Error("adjacent verses share a template")
	}
}
