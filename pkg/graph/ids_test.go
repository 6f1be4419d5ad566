package graph

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestSequence(t *testing.T) {
	s := NewSequence("e")
	for i, want := range []ID{"e0", "e1", "e2"} {
		if got := s.Next(); got != want {
			t.Errorf("Next() #%d = %q, want %q", i, got, want)
		}
	}
}

func TestSequenceConcurrent(t *testing.T) {
	s := NewSequence("n")
	const workers, per = 8, 100

	var mu sync.Mutex
	seen := make(map[ID]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range per {
				id := s.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*per {
		t.Errorf("unique ids = %d, want %d", len(seen), workers*per)
	}
}

func TestUUIDGenerator(t *testing.T) {
	var gen IDGenerator = UUIDGenerator{}
	a, b := gen.Next(), gen.Next()
	if a == b {
		t.Errorf("Next() returned duplicate %q", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("Next() = %q is not a uuid: %v", a, err)
	}
}
