package uuidv7

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateMonotonic(t *testing.T) {
	gen := New()

	prev := gen.Generate()
	for i := 0; i < 10000; i++ {
		next := gen.Generate()
		if bytes.Compare(next[:], prev[:]) <= 0 {
			t.Fatalf("identifier %s does not sort after %s (iteration %d)", next, prev, i)
		}
		prev = next
	}
}

func TestGenerateConcurrentUnique(t *testing.T) {
	gen := New()

	const workers = 8
	const perWorker = 2000

	results := make([][]uuid.UUID, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]uuid.UUID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, gen.Generate())
			}
			results[w] = ids
		}(w)
	}
	wg.Wait()

	seen := make(map[uuid.UUID]struct{}, workers*perWorker)
	for _, ids := range results {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate identifier %s", id)
			}
			seen[id] = struct{}{}
		}
	}
}

func TestExtractTimestampNearNow(t *testing.T) {
	gen := New()

	before := time.Now().Add(-500 * time.Millisecond)
	id := gen.Generate()
	after := time.Now().Add(500 * time.Millisecond)

	ts := ExtractTimestamp(id)
	if ts.Before(before) || ts.After(after) {
		t.Fatalf("embedded timestamp %s outside window [%s, %s]", ts, before, after)
	}
}

func TestIsWellFormed(t *testing.T) {
	gen := New()

	if !IsWellFormed(gen.Generate()) {
		t.Fatal("generated identifier missing v7 version nibble")
	}
	if IsWellFormed(uuid.UUID{}) {
		t.Fatal("zero value should not be well formed")
	}
	if IsWellFormed(uuid.New()) {
		t.Fatal("random v4 uuid should not be well formed")
	}
}

func TestSequenceIncrementsWithinMillisecond(t *testing.T) {
	gen := New()

	a := gen.Generate()
	b := gen.Generate()
	if ExtractTimestamp(a).Equal(ExtractTimestamp(b)) {
		want := (Sequence(a) + 1) & sequenceMask
		if Sequence(b) != want {
			t.Fatalf("sequence %d, want %d", Sequence(b), want)
		}
	}
}
