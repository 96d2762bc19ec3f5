package tetris

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func deal(b *Bag, n int) []Kind {
	out := make([]Kind, n)
	for i := range out {
		out[i] = b.Next()
	}
	return out
}

func TestBagSameSeedSameStream(t *testing.T) {
	a := deal(NewBag(1234), 70)
	b := deal(NewBag(1234), 70)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed dealt different pieces (-a +b):\n%s", diff)
	}
}

func TestBagDifferentSeeds(t *testing.T) {
	a := deal(NewBag(1), 70)
	b := deal(NewBag(2), 70)
	if cmp.Equal(a, b) {
		t.Error("different seeds dealt identical streams")
	}
}

func TestBagEverySevenIsAPermutation(t *testing.T) {
	pieces := deal(NewBag(99), 7*20)
	for start := 0; start < len(pieces); start += 7 {
		seen := map[Kind]bool{}
		for _, k := range pieces[start : start+7] {
			seen[k] = true
		}
		if len(seen) != 7 {
			t.Errorf("bag starting at %d has %d distinct kinds, expected 7", start, len(seen))
		}
	}
}

func TestBagPeekDoesNotConsume(t *testing.T) {
	b := NewBag(5)
	peek := b.Peek(5)
	if len(peek) != 5 {
		t.Fatalf("len(Peek(5)) = %d, expected 5", len(peek))
	}
	if diff := cmp.Diff(peek, deal(b, 5)); diff != "" {
		t.Errorf("Peek disagrees with Next (-peek +next):\n%s", diff)
	}
	if got := len(b.Peek(7)); got != 7 {
		t.Errorf("len(Peek(7)) = %d, expected a full bag of preview", got)
	}
	if got := len(b.Peek(-1)); got != 0 {
		t.Errorf("len(Peek(-1)) = %d, expected 0", got)
	}
}

func TestBagReset(t *testing.T) {
	b := NewBag(42)
	first := deal(b, 20)
	b.Reset()
	if diff := cmp.Diff(first, deal(b, 20)); diff != "" {
		t.Errorf("Reset did not rewind (-first +replay):\n%s", diff)
	}
	if b.Seed() != 42 {
		t.Errorf("Seed() = %d, expected 42", b.Seed())
	}
}
