package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU(Config[string, int]{MaxSize: 3})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if v, ok := c.Get(key); !ok || v != want {
			t.Errorf("Get(%s) = %d, %v; want %d, true", key, v, ok, want)
		}
	}
	if _, ok := c.Get("d"); ok {
		t.Error("Get(d) should return false")
	}
	if n := c.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}

	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after update = %d; want 10", v)
	}
	if n := c.Len(); n != 3 {
		t.Errorf("Len() after update = %d; want 3", n)
	}
}

func TestLRU_Eviction(t *testing.T) {
	var evicted []string
	c := NewLRU(Config[string, int]{
		MaxSize: 2,
		OnEvict: func(key string, _ int) { evicted = append(evicted, key) },
	})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts a

	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) should return false after eviction")
	}

	c.Get("b")    // b becomes most recent
	c.Put("d", 4) // evicts c

	if _, ok := c.Get("c"); ok {
		t.Error("Get(c) should return false after eviction")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}
	if fmt.Sprint(evicted) != "[a c]" {
		t.Errorf("evicted = %v; want [a c]", evicted)
	}

	s := c.Stats()
	if s.Evictions != 2 || s.Size != 2 || s.MaxSize != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRU_TTL(t *testing.T) {
	c := NewLRU(Config[string, int]{TTL: 20 * time.Millisecond})
	c.Put("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) should hit before expiry")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) should miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU(DefaultConfig[int, string]())
	for i := 0; i < 5; i++ {
		c.Put(i, fmt.Sprint(i))
	}
	c.Remove(2)
	if _, ok := c.Get(2); ok {
		t.Error("Get(2) should miss after Remove")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}

	s := c.Stats()
	if s.Misses != 1 || s.MaxSize != 256 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(Config[int, int]{MaxSize: 50})
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Put(g*1000+i, i)
				c.Get(g*1000 + i/2)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len() = %d; want <= 50", c.Len())
	}
}
