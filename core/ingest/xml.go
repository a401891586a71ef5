package ingest

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

var (
	osisVerseExpr   = xpath.MustCompile(`//verse[@osisID or @sID]`)
	zefaniaBookExpr = xpath.MustCompile(`//BIBLEBOOK`)
	zefaniaChapExpr = xpath.MustCompile(`CHAPTER`)
	zefaniaVersExpr = xpath.MustCompile(`VERS`)
)

// skippedElements never contribute verse text.
var skippedElements = map[string]bool{
	"note":  true,
	"title": true,
	"NOTE":  true,
}

// blockElements end with a word break.
var blockElements = map[string]bool{
	"p":  true,
	"l":  true,
	"lg": true,
	"lb": true,
	"br": true,
	"BR": true,
}

// extractOSIS reads <verse osisID="Gen.1.1"> containers and sID/eID
// milestone pairs.
func extractOSIS(doc *xmlquery.Node) ([]ir.RawVerse, int) {
	var out []ir.RawVerse
	dropped := 0
	for _, n := range xmlquery.QuerySelectorAll(doc, osisVerseExpr) {
		id := n.SelectAttr("osisID")
		if id == "" {
			id = n.SelectAttr("sID")
		}
		book, chapter, verse, ok := parseOSISID(id)
		if !ok {
			dropped++
			continue
		}

		var text string
		if n.SelectAttr("sID") != "" && n.FirstChild == nil {
			text = milestoneText(n)
		} else {
			text = elementText(n)
		}
		if text == "" {
			dropped++
			continue
		}
		out = append(out, ir.RawVerse{Book: book, Chapter: chapter, Verse: verse, Text: text})
	}
	return out, dropped
}

// parseOSISID splits "Gen.1.1" into its parts. A work prefix ("KJV:") and
// any additional space-separated ids are ignored.
func parseOSISID(id string) (string, int, int, bool) {
	if f := strings.Fields(id); len(f) > 0 {
		id = f[0]
	}
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[i+1:]
	}
	parts := strings.Split(id, ".")
	if len(parts) < 3 || parts[0] == "" {
		return "", 0, 0, false
	}
	chapter, cok := toInt(parts[1])
	verse, vok := toInt(parts[2])
	if !cok || !vok || chapter < 1 || verse < 1 {
		return "", 0, 0, false
	}
	return parts[0], chapter, verse, true
}

// milestoneText collects the text following a verse start milestone up to
// the next verse element at the same level.
func milestoneText(start *xmlquery.Node) string {
	var sb strings.Builder
	for n := start.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode && n.Data == "verse" {
			break
		}
		writeText(&sb, n)
	}
	return collapse(sb.String())
}

// extractZefania reads BIBLEBOOK/CHAPTER/VERS trees. Books are named by
// bname, or by bnumber as a canonical ordinal.
func extractZefania(doc *xmlquery.Node) ([]ir.RawVerse, int) {
	var out []ir.RawVerse
	dropped := 0
	for _, b := range xmlquery.QuerySelectorAll(doc, zefaniaBookExpr) {
		book := strings.TrimSpace(b.SelectAttr("bname"))
		if book == "" {
			if n, ok := toInt(b.SelectAttr("bnumber")); ok {
				book, _ = bookFromOrdinal(n)
			}
		}
		for _, c := range xmlquery.QuerySelectorAll(b, zefaniaChapExpr) {
			chapter, cok := toInt(c.SelectAttr("cnumber"))
			for _, v := range xmlquery.QuerySelectorAll(c, zefaniaVersExpr) {
				verse, vok := toInt(v.SelectAttr("vnumber"))
				text := elementText(v)
				if book == "" || !cok || !vok || chapter < 1 || verse < 1 || text == "" {
					dropped++
					continue
				}
				out = append(out, ir.RawVerse{Book: book, Chapter: chapter, Verse: verse, Text: text})
			}
		}
	}
	return out, dropped
}

// elementText returns the text of n without notes or headings, whitespace
// collapsed.
func elementText(n *xmlquery.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(&sb, c)
	}
	return collapse(sb.String())
}

func writeText(sb *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		sb.WriteString(n.Data)
	case xmlquery.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(sb, c)
		}
		if blockElements[n.Data] {
			sb.WriteByte(' ')
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
