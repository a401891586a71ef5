package ingest

import (
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

// Field aliases accepted in record-shaped sources, in preference order.
var (
	bookKeys    = []string{"book", "book_name", "bookName", "name", "abbrev", "book_id", "bookId", "id"}
	chapterKeys = []string{"chapter", "chapter_number", "chapterNumber", "c"}
	verseKeys   = []string{"verse", "verse_number", "verseNumber", "v", "number"}
	textKeys    = []string{"text", "content", "t"}

	// flatWrapperKeys hold a flat record list inside an envelope object.
	flatWrapperKeys = []string{"verses", "data", "records"}
)

// recordSample is how many leading objects flatList inspects for a complete
// verse record. One malformed record must not hide the rest of the source.
const recordSample = 16

// detectValue applies the ordered shape predicates to a decoded JSON value.
func detectValue(v any) ir.Shape {
	if flatList(v) != nil {
		return ir.ShapeFlatRecords
	}
	if bookList(v) != nil {
		return ir.ShapeBookList
	}
	if m := bookMap(v); m != nil {
		return detectBookMap(m)
	}
	return ir.ShapeUnrecognized
}

// flatList returns the record list of a flat-records source, or nil.
func flatList(v any) []any {
	switch t := v.(type) {
	case []any:
		if hasRecord(t) {
			return t
		}
	case map[string]any:
		for _, k := range flatWrapperKeys {
			if list, ok := t[k].([]any); ok && hasRecord(list) {
				return list
			}
		}
	}
	return nil
}

// bookList returns the book list of a book-list source, or nil.
func bookList(v any) []any {
	list, ok := v.([]any)
	if !ok {
		if m, isMap := v.(map[string]any); isMap {
			list, ok = m["books"].([]any)
		}
	}
	if !ok {
		return nil
	}
	first := firstMap(list)
	if first == nil {
		return nil
	}
	if _, ok := first["chapters"].([]any); !ok {
		return nil
	}
	if _, ok := stringField(first, bookKeys); !ok {
		return nil
	}
	return list
}

// bookMap returns the book-keyed map of a nested-map source, or nil. The map
// may be wrapped under "books".
func bookMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := m["books"].(map[string]any); ok {
		return inner
	}
	return m
}

// detectBookMap sniffs the second level of a book-keyed map. The first book
// (in key order) holding chapter content decides the shape.
func detectBookMap(m map[string]any) ir.Shape {
	for _, book := range sortedKeys(m) {
		switch chapters := m[book].(type) {
		case []any:
			// Chapters by position: [[verse, ...], ...].
			if _, ok := firstNonNil(chapters).([]any); ok {
				return ir.ShapeChapterLists
			}
		case map[string]any:
			for _, ch := range sortedKeys(chapters) {
				if _, ok := toInt(ch); !ok {
					continue
				}
				switch chapters[ch].(type) {
				case []any:
					return ir.ShapeChapterLists
				case map[string]any:
					return ir.ShapeChapterMaps
				}
			}
		}
	}
	return ir.ShapeUnrecognized
}

// detectXML recognizes OSIS and Zefania documents by root element, falling
// back to their characteristic verse elements.
func detectXML(doc *xmlquery.Node) ir.Shape {
	root := rootElement(doc)
	if root == nil {
		return ir.ShapeUnrecognized
	}
	switch strings.ToLower(root.Data) {
	case "osis":
		return ir.ShapeOSIS
	case "xmlbible":
		return ir.ShapeZefania
	}
	if xmlquery.QuerySelector(doc, zefaniaBookExpr) != nil {
		return ir.ShapeZefania
	}
	if xmlquery.QuerySelector(doc, osisVerseExpr) != nil {
		return ir.ShapeOSIS
	}
	return ir.ShapeUnrecognized
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// isRecord reports whether m carries every field of a flat verse record.
func isRecord(m map[string]any) bool {
	if m == nil {
		return false
	}
	return hasAny(m, bookKeys) && hasAny(m, chapterKeys) && hasAny(m, verseKeys) && hasAny(m, textKeys)
}

// hasRecord reports whether one of the first recordSample objects in list
// is a complete verse record.
func hasRecord(list []any) bool {
	seen := 0
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if isRecord(m) {
			return true
		}
		if seen++; seen >= recordSample {
			break
		}
	}
	return false
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func firstMap(list []any) map[string]any {
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			return m
		}
	}
	return nil
}

func firstNonNil(list []any) any {
	for _, el := range list {
		if el != nil {
			return el
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
