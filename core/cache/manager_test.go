package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSnapshot(version string) *ir.Snapshot {
	return &ir.Snapshot{
		FormatVersion: version,
		BuildID:       "0b9c2f6e-4b0e-4c59-9d1a-2f4f3c1d8e11",
		BuiltAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Verses: []ir.Verse{
			{ID: "Gen-1-1", BookID: "Gen", BookName: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heaven and the earth.", VersionID: "kjv"},
			{ID: "John-3-16", BookID: "John", BookName: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world", VersionID: "kjv"},
		},
		Sources: []ir.SourceInfo{{VersionID: "kjv", VersionName: "King James", Shape: ir.ShapeFlatRecords, Accepted: 2}},
	}
}

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := testSnapshot("v1")

	if err := NewManager(store, "v1", quiet).Save(ctx, snap); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if diff := cmp.Diff([]string{"corpus/v1/meta", "corpus/v1/snapshot"}, store.Keys()); diff != "" {
		t.Errorf("stored keys mismatch (-want +got):\n%s", diff)
	}

	// A fresh manager has no memo and must read the store.
	got, ok, err := NewManager(store, "v1", quiet).Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	meta, ok, err := NewManager(store, "v1", quiet).Meta(ctx)
	if err != nil || !ok {
		t.Fatalf("Meta() = %v, %v", ok, err)
	}
	if meta.VerseCount != 2 || meta.BuildID != snap.BuildID || !meta.BuiltAt.Equal(snap.BuiltAt) || meta.Checksum == "" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestManagerMemo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, "v1", quiet)
	snap := testSnapshot("v1")
	if err := m.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	// Wiping the store behind the manager's back leaves the memo serving.
	if err := store.DeletePrefix(ctx, ""); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Load(ctx)
	if err != nil || !ok || got != snap {
		t.Errorf("Load() = %p, %v, %v; want memoized %p", got, ok, err, snap)
	}
}

func TestManagerVersionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := NewManager(store, "v1", quiet).Save(ctx, testSnapshot("v1")); err != nil {
		t.Fatal(err)
	}
	_, ok, err := NewManager(store, "v2", quiet).Load(ctx)
	if err != nil || ok {
		t.Errorf("Load() with other version = %v, %v; want miss", ok, err)
	}

	err = NewManager(store, "v2", quiet).Save(ctx, testSnapshot("v1"))
	var verr *apperrors.ValidationError
	if !apperrors.As(err, &verr) {
		t.Errorf("Save() of mismatched snapshot = %v, want ValidationError", err)
	}
}

func TestManagerCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, s *MemoryStore)
	}{
		{"payload bytes flipped", func(t *testing.T, s *MemoryStore) {
			ctx := context.Background()
			payload, _, _ := s.Get(ctx, SnapshotKey("v1"))
			payload[len(payload)/2] ^= 0xFF
			_ = s.Put(ctx, SnapshotKey("v1"), payload)
		}},
		{"payload missing", func(t *testing.T, s *MemoryStore) {
			ctx := context.Background()
			_ = s.DeletePrefix(ctx, SnapshotKey("v1"))
		}},
		{"meta garbage", func(t *testing.T, s *MemoryStore) {
			_ = s.Put(context.Background(), MetaKey("v1"), []byte("{not json"))
		}},
		{"payload not xz", func(t *testing.T, s *MemoryStore) {
			ctx := context.Background()
			garbage := []byte("plain text")
			_ = s.Put(ctx, SnapshotKey("v1"), garbage)
			meta := Meta{FormatVersion: "v1", Checksum: ir.HashBytes(garbage)}
			raw, _ := json.Marshal(meta)
			_ = s.Put(ctx, MetaKey("v1"), raw)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			if err := NewManager(store, "v1", quiet).Save(ctx, testSnapshot("v1")); err != nil {
				t.Fatal(err)
			}
			tt.corrupt(t, store)

			got, ok, err := NewManager(store, "v1", quiet).Load(ctx)
			if err != nil || ok || got != nil {
				t.Errorf("Load() = %v, %v, %v; want clean miss", got, ok, err)
			}
		})
	}
}

func TestManagerInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, "v1", quiet)
	if err := m.Save(ctx, testSnapshot("v1")); err != nil {
		t.Fatal(err)
	}
	if err := NewManager(store, "v0", quiet).Save(ctx, testSnapshot("v0")); err != nil {
		t.Fatal(err)
	}
	_ = store.Put(ctx, "other/key", []byte("kept"))

	if err := m.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok, _ := m.Load(ctx); ok {
		t.Error("Load() after Invalidate should miss")
	}
	if diff := cmp.Diff([]string{"other/key"}, store.Keys()); diff != "" {
		t.Errorf("keys after Invalidate (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := []byte("abc")
	_ = s.Put(ctx, "k", v)
	v[0] = 'x'
	got, ok, _ := s.Get(ctx, "k")
	if !ok || string(got) != "abc" {
		t.Errorf("Get(k) = %q, %v; want abc", got, ok)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := s.Get(canceled, "k"); err == nil {
		t.Error("Get with canceled context should fail")
	}
}

func TestDecodeSnapshotCorrupt(t *testing.T) {
	_, err := decodeSnapshot("corpus/v1/snapshot", []byte("plain text"))
	if !apperrors.Is(err, apperrors.ErrCorrupt) {
		t.Fatalf("decodeSnapshot() = %v, want ErrCorrupt", err)
	}
	var cerr *apperrors.CorruptError
	if !apperrors.As(err, &cerr) || cerr.Key != "corpus/v1/snapshot" {
		t.Errorf("decodeSnapshot() = %#v, want CorruptError for the key", err)
	}
}
