package engine

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// Dice is the random source the engine rolls with. Roll returns 1..6.
type Dice interface {
	Roll() int
}

// CryptoDice draws from crypto/rand
type CryptoDice struct{}

func (CryptoDice) Roll() int {
	i, err := rand.Int(rand.Reader, big.NewInt(DiceFaces))
	if err != nil {
		panic(err)
	}
	return int(i.Int64()) + 1
}

// SeededDice produces a reproducible sequence for simulations
type SeededDice struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededDice creates dice seeded with seed
func NewSeededDice(seed uint64) *SeededDice {
	return &SeededDice{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *SeededDice) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(DiceFaces) + 1
}

// SequenceDice replays a fixed list of values and repeats the last one once exhausted
type SequenceDice struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceDice creates dice that return values in order
func NewSequenceDice(values ...int) *SequenceDice {
	return &SequenceDice{values: values}
}

func (d *SequenceDice) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.values) == 0 {
		return 1
	}
	if d.next >= len(d.values) {
		return d.values[len(d.values)-1]
	}
	v := d.values[d.next]
	d.next++
	return v
}

// Push appends more values to the sequence
func (d *SequenceDice) Push(values ...int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = append(d.values, values...)
}
