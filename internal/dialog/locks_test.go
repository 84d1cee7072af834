package dialog

import (
	"sync"
	"testing"
)

func TestUserLocksSerializePerUser(t *testing.T) {
	locks := newUserLocks()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if n := locks.size(); n != 0 {
		t.Fatalf("expected lock table to drain, got %d entries", n)
	}
}
