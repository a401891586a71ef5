package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ulikunitz/xz"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
	"github.com/FocuswithJustin/juniper-corpus/internal/logging"
)

// KeyPrefix namespaces every key a Manager writes.
const KeyPrefix = "corpus/"

// SnapshotKey returns the key of the snapshot payload for a format version.
func SnapshotKey(version string) string {
	return KeyPrefix + version + "/snapshot"
}

// MetaKey returns the key of the metadata record for a format version.
func MetaKey(version string) string {
	return KeyPrefix + version + "/meta"
}

// Meta is the small record stored next to each snapshot.
type Meta struct {
	FormatVersion string    `json:"format_version"`
	BuildID       string    `json:"build_id"`
	BuiltAt       time.Time `json:"built_at"`
	SavedAt       time.Time `json:"saved_at"`
	VerseCount    int       `json:"verse_count"`
	Checksum      string    `json:"checksum"` // BLAKE3 of the compressed payload
	Size          int       `json:"size"`
}

// Manager saves and loads snapshots for one format version and keeps the
// last one in memory.
type Manager struct {
	store   Store
	version string
	log     *slog.Logger

	mu   sync.Mutex
	memo *ir.Snapshot
}

// NewManager creates a manager over store. A nil logger uses the global one.
func NewManager(store Store, version string, logger *slog.Logger) *Manager {
	return &Manager{store: store, version: version, log: logging.Or(logger)}
}

// Version returns the format version the manager reads and writes.
func (m *Manager) Version() string {
	return m.version
}

// Save persists snap. The payload is written before the metadata record, so
// an interrupted save leaves no loadable entry.
func (m *Manager) Save(ctx context.Context, snap *ir.Snapshot) error {
	if snap == nil {
		return apperrors.NewValidation("snapshot", "nil snapshot")
	}
	if snap.FormatVersion != m.version {
		return apperrors.NewValidation("format_version", "snapshot is "+snap.FormatVersion+", cache is "+m.version)
	}

	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	meta := Meta{
		FormatVersion: snap.FormatVersion,
		BuildID:       snap.BuildID,
		BuiltAt:       snap.BuiltAt,
		SavedAt:       time.Now().UTC(),
		VerseCount:    snap.Len(),
		Checksum:      ir.HashBytes(payload),
		Size:          len(payload),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return apperrors.Wrap(err, "encode cache meta")
	}

	if err := m.store.Put(ctx, SnapshotKey(m.version), payload); err != nil {
		return &apperrors.IOError{Operation: "write", Path: SnapshotKey(m.version), Err: err}
	}
	if err := m.store.Put(ctx, MetaKey(m.version), metaJSON); err != nil {
		return &apperrors.IOError{Operation: "write", Path: MetaKey(m.version), Err: err}
	}

	m.mu.Lock()
	m.memo = snap
	m.mu.Unlock()
	logging.CacheEvent(m.log, "save", SnapshotKey(m.version), "bytes", len(payload), "verses", meta.VerseCount)
	return nil
}

// Load returns the persisted snapshot. ok is false on a miss: nothing
// stored, a version mismatch, a checksum mismatch or an undecodable
// payload. err is reserved for store failures.
func (m *Manager) Load(ctx context.Context) (*ir.Snapshot, bool, error) {
	m.mu.Lock()
	memo := m.memo
	m.mu.Unlock()
	if memo != nil {
		logging.CacheEvent(m.log, "memo_hit", SnapshotKey(m.version))
		return memo, true, nil
	}

	meta, ok, err := m.Meta(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	key := SnapshotKey(m.version)
	payload, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, false, &apperrors.IOError{Operation: "read", Path: key, Err: err}
	}
	if !ok {
		logging.CacheEvent(m.log, "miss", key, "reason", "payload missing")
		return nil, false, nil
	}
	if sum := ir.HashBytes(payload); sum != meta.Checksum {
		err := apperrors.NewCorrupt(key, "checksum mismatch", nil)
		m.log.Warn("cache payload rejected", "error", err.Error(), "want", meta.Checksum, "got", sum)
		return nil, false, nil
	}

	snap, err := decodeSnapshot(key, payload)
	if err != nil {
		m.log.Warn("cache payload rejected", "error", err.Error())
		return nil, false, nil
	}
	if snap.FormatVersion != m.version {
		logging.CacheEvent(m.log, "miss", key, "reason", "version mismatch", "found", snap.FormatVersion)
		return nil, false, nil
	}

	m.mu.Lock()
	m.memo = snap
	m.mu.Unlock()
	logging.CacheEvent(m.log, "hit", key, "verses", snap.Len())
	return snap, true, nil
}

// Meta returns the stored metadata record, with the same miss rules as Load.
func (m *Manager) Meta(ctx context.Context) (*Meta, bool, error) {
	key := MetaKey(m.version)
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, false, &apperrors.IOError{Operation: "read", Path: key, Err: err}
	}
	if !ok {
		logging.CacheEvent(m.log, "miss", key, "reason", "absent")
		return nil, false, nil
	}

	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		m.log.Warn("cache meta undecodable", "key", key, "error", err.Error())
		return nil, false, nil
	}
	if meta.FormatVersion != m.version {
		logging.CacheEvent(m.log, "miss", key, "reason", "version mismatch", "found", meta.FormatVersion)
		return nil, false, nil
	}
	return &meta, true, nil
}

// Invalidate drops the in-memory snapshot and every persisted corpus entry,
// whatever its version.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.memo = nil
	m.mu.Unlock()

	if err := m.store.DeletePrefix(ctx, KeyPrefix); err != nil {
		return &apperrors.IOError{Operation: "delete", Path: KeyPrefix, Err: err}
	}
	logging.CacheEvent(m.log, "invalidate", KeyPrefix)
	return nil
}

func encodeSnapshot(snap *ir.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, apperrors.Wrap(err, "create xz writer")
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		_ = w.Close()
		return nil, apperrors.Wrap(err, "encode snapshot")
	}
	if err := w.Close(); err != nil {
		return nil, apperrors.Wrap(err, "flush xz writer")
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(key string, payload []byte) (*ir.Snapshot, error) {
	r, err := xz.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewCorrupt(key, "xz header", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewCorrupt(key, "xz stream", err)
	}
	var snap ir.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperrors.NewCorrupt(key, "snapshot json", err)
	}
	return &snap, nil
}
