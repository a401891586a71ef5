package canon

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Partial-match floors, in runes.
const (
	minPartialInput = 3
	minPartialName  = 4
)

// ordinals rewrites leading numeral words so "I John", "First John" and
// "Primeira João" all normalize to "1 john". Suffixed digits ("1st") are
// handled in Normalize.
var ordinals = map[string]string{
	"i": "1", "ii": "2", "iii": "3", "iv": "4",
	"first": "1", "second": "2", "third": "3",
	"primeiro": "1", "primeira": "1", "segundo": "2", "segunda": "2", "terceiro": "3", "terceira": "3",
	"primero": "1", "primera": "1", "tercero": "3", "tercera": "3",
	"premier": "1", "premiere": "1", "deuxieme": "2", "troisieme": "3",
	"erste": "1", "erster": "1", "zweite": "2", "zweiter": "2", "dritte": "3", "dritter": "3",
}

// Resolver maps arbitrary source book names onto the canonical registry.
// It is safe for concurrent use once constructed.
type Resolver struct {
	exact      map[string]int // lowercase trimmed alias
	normalized map[string]int // normalized alias, spaced and compact forms
	names      []nameEntry    // normalized aliases for partial matching
}

type nameEntry struct {
	key  string
	book int
}

// NewResolver builds a resolver over the registry. extra maps additional
// aliases to OSIS ids; entries naming an unknown id are ignored.
func NewResolver(extra map[string]string) *Resolver {
	r := &Resolver{
		exact:      make(map[string]int),
		normalized: make(map[string]int),
	}

	for i, b := range books {
		r.add(b.ID, i)
		r.add(b.DisplayName, i)
		for _, a := range aliases[b.ID] {
			r.add(a, i)
		}
		for _, a := range exactAliases[b.ID] {
			r.addExact(a, i)
		}
	}
	for alias, id := range extra {
		if i, ok := byID[strings.ToLower(id)]; ok {
			r.add(alias, i)
		}
	}
	return r
}

func (r *Resolver) add(alias string, book int) {
	if !r.addExact(alias, book) {
		return
	}

	spaced, compact := Normalize(alias)
	for _, k := range []string{spaced, compact} {
		if k == "" {
			continue
		}
		if _, ok := r.normalized[k]; !ok {
			r.normalized[k] = book
			r.names = append(r.names, nameEntry{key: k, book: book})
		}
	}
}

// addExact registers alias for case-insensitive exact matching only. It
// reports whether the alias was non-empty.
func (r *Resolver) addExact(alias string, book int) bool {
	lower := strings.ToLower(strings.TrimSpace(alias))
	if lower == "" {
		return false
	}
	if _, ok := r.exact[lower]; !ok {
		r.exact[lower] = book
	}
	return true
}

// Resolve finds the canonical book for a source-supplied name. It tries an
// exact case-insensitive alias match, then a normalized-token match.
func (r *Resolver) Resolve(name string) (Book, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return Book{}, false
	}
	if i, ok := r.exact[lower]; ok {
		return books[i], true
	}

	spaced, compact := Normalize(name)
	if i, ok := r.normalized[spaced]; ok {
		return books[i], true
	}
	if i, ok := r.normalized[compact]; ok {
		return books[i], true
	}
	return Book{}, false
}

// ResolvePartial is Resolve with a tolerant fallback. First the input may be
// a prefix of a known name (earliest book wins); failing that, the longest
// known name that prefixes the input wins.
func (r *Resolver) ResolvePartial(name string) (Book, bool) {
	if b, ok := r.Resolve(name); ok {
		return b, true
	}

	_, compact := Normalize(name)
	if utf8.RuneCountInString(compact) < minPartialInput {
		return Book{}, false
	}

	best := -1
	for _, e := range r.names {
		if strings.Contains(e.key, " ") {
			continue
		}
		if strings.HasPrefix(e.key, compact) && (best < 0 || e.book < best) {
			best = e.book
		}
	}
	if best >= 0 {
		return books[best], true
	}

	longest := 0
	for _, e := range r.names {
		if strings.Contains(e.key, " ") {
			continue
		}
		n := utf8.RuneCountInString(e.key)
		if n < minPartialName || !strings.HasPrefix(compact, e.key) {
			continue
		}
		if n > longest || (n == longest && e.book < best) {
			best, longest = e.book, n
		}
	}
	if best < 0 {
		return Book{}, false
	}
	return books[best], true
}

// stripMarks removes combining marks after canonical decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a book name to comparison keys: diacritics and
// punctuation removed, whitespace collapsed, numeral words rewritten to
// digits and a leading digit split from the name. It returns the spaced form
// ("1 john") and the compact form ("1john").
func Normalize(name string) (spaced, compact string) {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)

	var b strings.Builder
	prevDigit := false
	for _, c := range s {
		switch {
		case unicode.IsDigit(c):
			b.WriteRune(c)
			prevDigit = true
			continue
		case unicode.IsLetter(c):
			if prevDigit {
				b.WriteByte(' ')
			}
			b.WriteRune(c)
		default:
			b.WriteByte(' ')
		}
		prevDigit = false
	}

	fields := strings.Fields(b.String())
	if len(fields) > 2 && isDigits(fields[0]) && ordinalSuffixes[fields[1]] {
		fields = append(fields[:1], fields[2:]...)
	}
	if len(fields) > 1 {
		if d, ok := ordinals[fields[0]]; ok {
			fields[0] = d
		}
	}
	return strings.Join(fields, " "), strings.Join(fields, "")
}

// ordinalSuffixes follow a leading digit in "1st John" or "2nd Kings".
var ordinalSuffixes = map[string]bool{"st": true, "nd": true, "rd": true, "th": true}

func isDigits(s string) bool {
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return s != ""
}

var (
	defaultResolver     *Resolver
	defaultResolverOnce sync.Once
)

// DefaultResolver returns the shared resolver over the built-in aliases.
func DefaultResolver() *Resolver {
	defaultResolverOnce.Do(func() {
		defaultResolver = NewResolver(nil)
	})
	return defaultResolver
}

// Resolve resolves name with the default resolver.
func Resolve(name string) (Book, bool) {
	return DefaultResolver().Resolve(name)
}
