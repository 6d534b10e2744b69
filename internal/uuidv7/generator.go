// Package uuidv7 generates time-ordered UUIDv7 identifiers used as
// primary keys across the directory.
package uuidv7

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sequenceMask = 0xFFF
	version      = 0x7
)

// Generator issues UUIDv7 values that sort by creation time at
// millisecond granularity. Safe for concurrent use; all generation
// serializes on an internal lock.
//
// Layout: 48-bit unix-ms timestamp | 4-bit version | 12-bit sequence |
// 2-bit variant | 62 random bits.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp int64
	sequence      uint16
}

// New returns a Generator seeded with a random per-millisecond sequence.
func New() *Generator {
	return &Generator{sequence: randomSequence()}
}

// Generate returns the next identifier. Identifiers from the same
// Generator compare in generation order as unsigned 128-bit integers.
func (g *Generator) Generate() uuid.UUID {
	g.mu.Lock()
	ts := time.Now().UnixMilli()
	if ts == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & sequenceMask
		if g.sequence == 0 {
			// 4096 ids issued this millisecond; wait the clock out.
			for ts == g.lastTimestamp {
				ts = time.Now().UnixMilli()
			}
			g.sequence = randomSequence()
		}
	} else {
		g.sequence = randomSequence()
	}
	g.lastTimestamp = ts
	seq := g.sequence
	g.mu.Unlock()

	var id uuid.UUID
	id[0] = byte(ts >> 40)
	id[1] = byte(ts >> 32)
	id[2] = byte(ts >> 24)
	id[3] = byte(ts >> 16)
	id[4] = byte(ts >> 8)
	id[5] = byte(ts)
	id[6] = byte(version<<4) | byte(seq>>8)
	id[7] = byte(seq)

	if _, err := rand.Read(id[8:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	id[8] = (id[8] & 0x3F) | 0x80

	return id
}

// ExtractTimestamp recovers the embedded creation time.
func ExtractTimestamp(id uuid.UUID) time.Time {
	ms := int64(id[0])<<40 | int64(id[1])<<32 | int64(id[2])<<24 |
		int64(id[3])<<16 | int64(id[4])<<8 | int64(id[5])
	return time.UnixMilli(ms).UTC()
}

// IsWellFormed reports whether the identifier carries the v7 version nibble.
func IsWellFormed(id uuid.UUID) bool {
	return id[6]>>4 == version
}

// Sequence returns the 12-bit sequence embedded in the identifier.
func Sequence(id uuid.UUID) uint16 {
	return binary.BigEndian.Uint16(id[6:8]) & sequenceMask
}

func randomSequence() uint16 {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.BigEndian.Uint16(b[:]) & sequenceMask
}
