package ingest

import (
	"sort"

	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

// extractFlat reads a list of {book, chapter, verse, text} records.
func extractFlat(list []any) ([]ir.RawVerse, int) {
	out := make([]ir.RawVerse, 0, len(list))
	dropped := 0
	for _, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		book, bok := bookField(rec)
		chapter, cok := intField(rec, chapterKeys)
		verse, vok := intField(rec, verseKeys)
		text, tok := stringField(rec, textKeys)
		if !bok || !cok || !vok || !tok || chapter < 1 || verse < 1 {
			dropped++
			continue
		}
		out = append(out, ir.RawVerse{Book: book, Chapter: chapter, Verse: verse, Text: text})
	}
	return out, dropped
}

// extractBookList reads [{name, chapters: [...]}] sources. A chapter is a
// list of verses or an object {number, verses}; verses are strings or
// {verse, text} objects. Missing numbers are implied by position.
func extractBookList(list []any) ([]ir.RawVerse, int) {
	var out []ir.RawVerse
	dropped := 0
	for _, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		book, ok := bookField(rec)
		chapters, cok := rec["chapters"].([]any)
		if !ok || !cok {
			dropped++
			continue
		}
		for i, ch := range chapters {
			number := i + 1
			verses := ch
			if m, isMap := ch.(map[string]any); isMap {
				if n, ok := intField(m, append([]string{"number"}, chapterKeys...)); ok {
					number = n
				}
				verses = m["verses"]
			}
			vs, d := extractChapter(book, number, verses)
			out = append(out, vs...)
			dropped += d
		}
	}
	return out, dropped
}

// extractBookMap reads book → chapter → verses maps. Chapters may be keyed
// by number or listed by position; verses may be listed by position or keyed
// by number.
func extractBookMap(m map[string]any) ([]ir.RawVerse, int) {
	var out []ir.RawVerse
	dropped := 0
	for _, book := range sortedKeys(m) {
		switch chapters := m[book].(type) {
		case []any:
			for i, ch := range chapters {
				vs, d := extractChapter(book, i+1, ch)
				out = append(out, vs...)
				dropped += d
			}
		case map[string]any:
			for _, key := range sortedNumericKeys(chapters) {
				number, _ := toInt(key)
				vs, d := extractChapter(book, number, chapters[key])
				out = append(out, vs...)
				dropped += d
			}
		}
	}
	return out, dropped
}

// extractChapter reads one chapter's verses, either a positional list or a
// map keyed by verse number.
func extractChapter(book string, chapter int, verses any) ([]ir.RawVerse, int) {
	var out []ir.RawVerse
	dropped := 0
	add := func(verse int, v any) {
		text, ok := verseText(v)
		if !ok || chapter < 1 || verse < 1 {
			dropped++
			return
		}
		out = append(out, ir.RawVerse{Book: book, Chapter: chapter, Verse: verse, Text: text})
	}

	switch t := verses.(type) {
	case []any:
		for i, v := range t {
			number := i + 1
			if m, ok := v.(map[string]any); ok {
				if n, ok := intField(m, verseKeys); ok {
					number = n
				}
			}
			add(number, v)
		}
	case map[string]any:
		for _, key := range sortedNumericKeys(t) {
			number, _ := toInt(key)
			add(number, t[key])
		}
	default:
		dropped++
	}
	return out, dropped
}

// sortedNumericKeys returns the integer-valued keys of m in numeric order.
func sortedNumericKeys(m map[string]any) []string {
	type entry struct {
		key string
		n   int
	}
	entries := make([]entry, 0, len(m))
	for k := range m {
		if n, ok := toInt(k); ok {
			entries = append(entries, entry{k, n})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n < entries[j].n
		}
		return entries[i].key < entries[j].key
	})
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}
