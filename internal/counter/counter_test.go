package counter

import "testing"

func TestCounter_Steps(t *testing.T) {
	c := New("push-ups", 0, 10)
	if c.Amount != DefaultAmount || c.Count != 10 {
		t.Fatalf("unexpected new counter %+v", c)
	}
	c.Increment()
	c.Increment()
	c.SetAmount(5)
	c.Decrement()
	if c.Count != 7 {
		t.Fatalf("count = %d, want 7", c.Count)
	}
	c.SetBase(-3)
	c.Reset()
	if c.Count != -3 {
		t.Fatalf("reset should return to base, got %d", c.Count)
	}
}

func TestCounters_AddRemove(t *testing.T) {
	var cs Counters
	cs.Add(New("a", 1, 0))
	cs.Add(New("b", 2, 0))
	cs.Add(New("c", 3, 0))

	if cs.Remove(5) || cs.Remove(-1) {
		t.Fatalf("out of range remove must fail")
	}
	if !cs.Remove(1) {
		t.Fatalf("remove failed")
	}
	got := cs.List()
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Fatalf("unexpected list %+v", got)
	}

	c, ok := cs.At(1)
	if !ok {
		t.Fatalf("At(1) missing")
	}
	c.Increment()
	if cs.List()[1].Count != 3 {
		t.Fatalf("At should address the stored counter")
	}
}
