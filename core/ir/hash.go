package ir

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashBytes computes the BLAKE3-256 hash of data and returns it as a hex string.
func HashBytes(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Fingerprint hashes the addressable content of a snapshot: every verse's
// composite id and text, in order. Two snapshots with the same fingerprint
// answer every query identically; build id and timestamp are excluded.
func Fingerprint(s *Snapshot) string {
	h := blake3.New()
	if s != nil {
		_, _ = h.Write([]byte(s.FormatVersion))
		for _, v := range s.Verses {
			_, _ = h.Write([]byte{0})
			_, _ = h.Write([]byte(v.ID))
			_, _ = h.Write([]byte{0})
			_, _ = h.Write([]byte(v.Text))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
