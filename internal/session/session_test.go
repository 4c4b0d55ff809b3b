package session_test

import (
	"sync"
	"testing"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/internal/session"
)

func TestSessionCancelOnce(t *testing.T) {
	s := session.New(7, "127.0.0.1:9000")
	if s.ID() != 7 || s.Addr() != "127.0.0.1:9000" {
		t.Fatalf("unexpected identity %d %q", s.ID(), s.Addr())
	}
	if s.Cancelled() {
		t.Fatal("new session already cancelled")
	}
	if !s.Cancel() {
		t.Fatal("first Cancel reported false")
	}
	if s.Cancel() {
		t.Fatal("second Cancel reported true")
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestStorePutGetDelete(t *testing.T) {
	st := session.NewStore[string](3)
	if !st.Put(1, "a") || !st.Put(2, "b") {
		t.Fatal("Put failed")
	}
	if st.Put(1, "c") {
		t.Fatal("duplicate Put accepted")
	}
	if v, ok := st.Get(1); !ok || v != "a" {
		t.Fatalf("Get(1)=%q,%v", v, ok)
	}
	if v, ok := st.Delete(2); !ok || v != "b" {
		t.Fatalf("Delete(2)=%q,%v", v, ok)
	}
	if _, ok := st.Delete(2); ok {
		t.Fatal("double delete succeeded")
	}
	if st.Len() != 1 {
		t.Fatalf("Len=%d", st.Len())
	}
}

func TestStoreRangeMayMutate(t *testing.T) {
	st := session.NewStore[int](4)
	for i := 0; i < 100; i++ {
		st.Put(api.ConnectionID(i), i)
	}
	seen := 0
	st.Range(func(id api.ConnectionID, v int) bool {
		st.Delete(id)
		seen++
		return true
	})
	if seen != 100 || st.Len() != 0 {
		t.Fatalf("seen=%d len=%d", seen, st.Len())
	}
}

func TestStoreConcurrent(t *testing.T) {
	st := session.NewStore[*session.Session](0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := api.ConnectionID(base*1000 + i)
				st.Put(id, session.New(id, ""))
				if i%2 == 0 {
					st.Delete(id)
				}
			}
		}(g)
	}
	wg.Wait()
	if st.Len() != 8*250 {
		t.Fatalf("Len=%d", st.Len())
	}
}
