// Package ir provides the canonical representation of a scripture corpus.
//
// Raw source documents of many shapes are flattened to RawVerse tuples, then
// resolved and merged into canonical Verse records addressed by a composite
// id. A Snapshot is the immutable unit that is built, persisted and queried.
//
// # Core Types
//
//   - RawVerse / RawSource: tuples exactly as read from a source
//   - Verse: a canonical verse keyed by "{bookId}-{chapter}-{verse}"
//   - Snapshot: ordered books plus flat verses, a format tag and build time
//   - ChapterSummary: per-chapter verse count for navigation
//   - Reference: a parsed human reference such as "John 3:16"
//
// # Example
//
//	ref, err := ir.ParseReference("1 John 4:7-8")
//	if err != nil {
//	    return nil
//	}
//	fmt.Println(ref.Book, ref.Chapter, ref.Verse, ref.VerseEnd)
package ir
