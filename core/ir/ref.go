package ir

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/juniper-corpus/core/errors"
)

// Reference is a parsed human scripture reference. Book is the name as
// written and still needs resolving against the canon.
type Reference struct {
	Book     string `json:"book"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse,omitempty"`    // 0 for whole-chapter references
	VerseEnd int    `json:"verse_end,omitempty"` // 0 unless a range
}

// refGrammar is the participle grammar for human references.
// Examples: "John 3:16", "1 John 4.7-8", "Song of Solomon 2", "Gên. 1:1"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix  string     `@Int?`
	Words   []string   `@Word+ "."?`
	Chapter int        `@Int`
	Verse   *versePart `( (":" | ".") @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	End   *int `( ("-" | "–") @Int )?`
}

// refLexer tokenizes human references. Words are any run of Unicode letters
// so localized book names lex the same as English ones.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[\p{L}][\p{L}\p{M}'’]*`},
	{Name: "Punct", Pattern: `[:.\-–]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses "<book> <chapter>[(:|.)<verse>[-<verseEnd>]]".
// Supported forms:
//   - "Psalms 23" (whole chapter)
//   - "John 3:16" or "John 3.16" (single verse)
//   - "1 John 4:7-8" (verse range)
//   - "1John 4:7", "I John 4:7", "Primeira João 4:7" (numbered books)
func ParseReference(s string) (*Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("reference", "", "empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{Format: "reference", Path: s, Message: "invalid reference format", Err: err}
	}

	book := strings.Join(parsed.Words, " ")
	if parsed.Prefix != "" {
		book = parsed.Prefix + " " + book
	}
	ref := &Reference{Book: book, Chapter: parsed.Chapter}
	if ref.Chapter < 1 {
		return nil, errors.NewParse("reference", s, "chapter must be positive")
	}

	if parsed.Verse != nil {
		ref.Verse = parsed.Verse.Verse
		if ref.Verse < 1 {
			return nil, errors.NewParse("reference", s, "verse must be positive")
		}
		if parsed.Verse.End != nil {
			ref.VerseEnd = *parsed.Verse.End
			if ref.VerseEnd < ref.Verse {
				return nil, errors.NewParse("reference", s, "range end precedes start")
			}
		}
	}
	return ref, nil
}

// HasVerse reports whether the reference names a verse rather than a whole
// chapter.
func (r *Reference) HasVerse() bool {
	return r.Verse > 0
}

// IsRange returns true if this reference spans multiple verses.
func (r *Reference) IsRange() bool {
	return r.VerseEnd > r.Verse
}

// Contains reports whether verse number v of the referenced chapter falls
// inside the reference.
func (r *Reference) Contains(v int) bool {
	switch {
	case !r.HasVerse():
		return v >= 1
	case r.IsRange():
		return v >= r.Verse && v <= r.VerseEnd
	default:
		return v == r.Verse
	}
}

// String formats the reference in "Book C:V-E" form.
func (r *Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(r.Chapter))
	if r.HasVerse() {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(r.Verse))
		if r.IsRange() {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(r.VerseEnd))
		}
	}
	return sb.String()
}
