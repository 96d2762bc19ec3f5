package tetris

import "math/rand"

// Bag deals pieces as a stream of shuffled seven-piece bags. Two bags
// built from the same seed deal the same stream, which is what keeps both
// sides of a match on the same sequence.
type Bag struct {
	seed  uint32
	rng   *rand.Rand
	queue []Kind
}

// NewBag creates a bag for the given seed.
func NewBag(seed uint32) *Bag {
	b := &Bag{seed: seed}
	b.Reset()
	return b
}

// Seed returns the seed the bag was built from.
func (b *Bag) Seed() uint32 {
	return b.seed
}

// Reset rewinds the stream to its beginning.
func (b *Bag) Reset() {
	b.rng = rand.New(rand.NewSource(int64(b.seed)))
	b.queue = b.queue[:0]
	b.refill()
}

// refill appends whole bags until more than seven pieces are queued, so a
// full preview is always available.
func (b *Bag) refill() {
	for len(b.queue) <= len(AllKinds) {
		next := AllKinds
		b.rng.Shuffle(len(next), func(i, j int) {
			next[i], next[j] = next[j], next[i]
		})
		b.queue = append(b.queue, next[:]...)
	}
}

// Next removes and returns the next piece.
func (b *Bag) Next() Kind {
	k := b.queue[0]
	b.queue = b.queue[1:]
	b.refill()
	return k
}

// Peek returns up to n upcoming pieces without consuming them.
func (b *Bag) Peek(n int) []Kind {
	n = min(max(n, 0), len(b.queue))
	return append([]Kind(nil), b.queue[:n]...)
}
