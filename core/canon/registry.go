// Package canon holds the closed registry of canonical Bible books and the
// resolver that maps arbitrary source spellings onto it.
package canon

import (
	"sort"
	"strings"
)

// Testament identifies the canonical block a book belongs to.
type Testament string

// Testament constants.
const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Genre is a coarse literary classification used to pick filler templates.
type Genre string

// Genre constants.
const (
	GenreNarrative Genre = "narrative" // Torah and historical books
	GenreWisdom    Genre = "wisdom"    // poetic and wisdom books
	GenreProphetic Genre = "prophetic" // prophets and apocalyptic
	GenreGospel    Genre = "gospel"
	GenreEpistle   Genre = "epistle"
	GenreDefault   Genre = "default"
)

// Book is a canonical book of the Bible.
type Book struct {
	// ID is the OSIS book identifier (e.g., "Gen", "1John").
	ID string `json:"id"`

	// DisplayName is the canonical English name (e.g., "Genesis").
	DisplayName string `json:"display_name"`

	// Testament is OT or NT.
	Testament Testament `json:"testament"`

	// ChapterCount is the expected number of chapters.
	ChapterCount int `json:"chapter_count"`

	// Order is the 1-indexed position in the canonical sequence.
	Order int `json:"order"`

	// Genre is the coarse literary classification.
	Genre Genre `json:"genre"`
}

// books is the fixed canonical sequence. The OT block precedes the NT block.
var books = []Book{
	// Old Testament
	{"Gen", "Genesis", OldTestament, 50, 1, GenreNarrative},
	{"Exod", "Exodus", OldTestament, 40, 2, GenreNarrative},
	{"Lev", "Leviticus", OldTestament, 27, 3, GenreNarrative},
	{"Num", "Numbers", OldTestament, 36, 4, GenreNarrative},
	{"Deut", "Deuteronomy", OldTestament, 34, 5, GenreNarrative},
	{"Josh", "Joshua", OldTestament, 24, 6, GenreNarrative},
	{"Judg", "Judges", OldTestament, 21, 7, GenreNarrative},
	{"Ruth", "Ruth", OldTestament, 4, 8, GenreNarrative},
	{"1Sam", "1 Samuel", OldTestament, 31, 9, GenreNarrative},
	{"2Sam", "2 Samuel", OldTestament, 24, 10, GenreNarrative},
	{"1Kgs", "1 Kings", OldTestament, 22, 11, GenreNarrative},
	{"2Kgs", "2 Kings", OldTestament, 25, 12, GenreNarrative},
	{"1Chr", "1 Chronicles", OldTestament, 29, 13, GenreNarrative},
	{"2Chr", "2 Chronicles", OldTestament, 36, 14, GenreNarrative},
	{"Ezra", "Ezra", OldTestament, 10, 15, GenreNarrative},
	{"Neh", "Nehemiah", OldTestament, 13, 16, GenreNarrative},
	{"Esth", "Esther", OldTestament, 10, 17, GenreNarrative},
	{"Job", "Job", OldTestament, 42, 18, GenreWisdom},
	{"Ps", "Psalms", OldTestament, 150, 19, GenreWisdom},
	{"Prov", "Proverbs", OldTestament, 31, 20, GenreWisdom},
	{"Eccl", "Ecclesiastes", OldTestament, 12, 21, GenreWisdom},
	{"Song", "Song of Solomon", OldTestament, 8, 22, GenreWisdom},
	{"Isa", "Isaiah", OldTestament, 66, 23, GenreProphetic},
	{"Jer", "Jeremiah", OldTestament, 52, 24, GenreProphetic},
	{"Lam", "Lamentations", OldTestament, 5, 25, GenreWisdom},
	{"Ezek", "Ezekiel", OldTestament, 48, 26, GenreProphetic},
	{"Dan", "Daniel", OldTestament, 12, 27, GenreProphetic},
	{"Hos", "Hosea", OldTestament, 14, 28, GenreProphetic},
	{"Joel", "Joel", OldTestament, 3, 29, GenreProphetic},
	{"Amos", "Amos", OldTestament, 9, 30, GenreProphetic},
	{"Obad", "Obadiah", OldTestament, 1, 31, GenreProphetic},
	{"Jonah", "Jonah", OldTestament, 4, 32, GenreProphetic},
	{"Mic", "Micah", OldTestament, 7, 33, GenreProphetic},
	{"Nah", "Nahum", OldTestament, 3, 34, GenreProphetic},
	{"Hab", "Habakkuk", OldTestament, 3, 35, GenreProphetic},
	{"Zeph", "Zephaniah", OldTestament, 3, 36, GenreProphetic},
	{"Hag", "Haggai", OldTestament, 2, 37, GenreProphetic},
	{"Zech", "Zechariah", OldTestament, 14, 38, GenreProphetic},
	{"Mal", "Malachi", OldTestament, 4, 39, GenreProphetic},
	// New Testament
	{"Matt", "Matthew", NewTestament, 28, 40, GenreGospel},
	{"Mark", "Mark", NewTestament, 16, 41, GenreGospel},
	{"Luke", "Luke", NewTestament, 24, 42, GenreGospel},
	{"John", "John", NewTestament, 21, 43, GenreGospel},
	{"Acts", "Acts", NewTestament, 28, 44, GenreDefault},
	{"Rom", "Romans", NewTestament, 16, 45, GenreEpistle},
	{"1Cor", "1 Corinthians", NewTestament, 16, 46, GenreEpistle},
	{"2Cor", "2 Corinthians", NewTestament, 13, 47, GenreEpistle},
	{"Gal", "Galatians", NewTestament, 6, 48, GenreEpistle},
	{"Eph", "Ephesians", NewTestament, 6, 49, GenreEpistle},
	{"Phil", "Philippians", NewTestament, 4, 50, GenreEpistle},
	{"Col", "Colossians", NewTestament, 4, 51, GenreEpistle},
	{"1Thess", "1 Thessalonians", NewTestament, 5, 52, GenreEpistle},
	{"2Thess", "2 Thessalonians", NewTestament, 3, 53, GenreEpistle},
	{"1Tim", "1 Timothy", NewTestament, 6, 54, GenreEpistle},
	{"2Tim", "2 Timothy", NewTestament, 4, 55, GenreEpistle},
	{"Titus", "Titus", NewTestament, 3, 56, GenreEpistle},
	{"Phlm", "Philemon", NewTestament, 1, 57, GenreEpistle},
	{"Heb", "Hebrews", NewTestament, 13, 58, GenreEpistle},
	{"Jas", "James", NewTestament, 5, 59, GenreEpistle},
	{"1Pet", "1 Peter", NewTestament, 5, 60, GenreEpistle},
	{"2Pet", "2 Peter", NewTestament, 3, 61, GenreEpistle},
	{"1John", "1 John", NewTestament, 5, 62, GenreEpistle},
	{"2John", "2 John", NewTestament, 1, 63, GenreEpistle},
	{"3John", "3 John", NewTestament, 1, 64, GenreEpistle},
	{"Jude", "Jude", NewTestament, 1, 65, GenreEpistle},
	{"Rev", "Revelation", NewTestament, 22, 66, GenreProphetic},
}

// byID maps a lowercase OSIS id to its index in books.
var byID = func() map[string]int {
	m := make(map[string]int, len(books))
	for i, b := range books {
		m[strings.ToLower(b.ID)] = i
	}
	return m
}()

// Books returns a copy of the canonical sequence ordered by Order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Len returns the number of canonical books.
func Len() int {
	return len(books)
}

// ByID looks up a book by OSIS id, case-insensitively.
func ByID(id string) (Book, bool) {
	i, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Book{}, false
	}
	return books[i], true
}

// IsNewTestament reports whether the book belongs to the NT block.
func (b Book) IsNewTestament() bool {
	return b.Testament == NewTestament
}

// HasChapter reports whether chapter lies within 1..ChapterCount.
func (b Book) HasChapter(chapter int) bool {
	return chapter >= 1 && chapter <= b.ChapterCount
}
