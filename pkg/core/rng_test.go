package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Uint32(), b.Uint32(), "draw %d diverged", i)
	}
}

func TestRNGSeedRestartsSequence(t *testing.T) {
	r := NewRNG(7)
	first := []float64{r.Float64(), r.Float64(), r.Float64()}

	r.Seed(7)
	again := []float64{r.Float64(), r.Float64(), r.Float64()}
	assert.Equal(t, first, again)

	r.Seed(8)
	other := []float64{r.Float64(), r.Float64(), r.Float64()}
	assert.NotEqual(t, first, other)
}

func TestRNGFloat64Bounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of range: %f", i, v)
		}
	}
}

func TestRNGRange(t *testing.T) {
	r := NewRNG(99)
	for i := 0; i < 1000; i++ {
		v := r.Range(0.9, 1.1)
		if v < 0.9 || v >= 1.1 {
			t.Fatalf("range draw %d out of bounds: %f", i, v)
		}
	}
}

func TestRNGSeedUsesLow32Bits(t *testing.T) {
	a := NewRNG(5)
	b := NewRNG(5 + 1<<32)
	assert.Equal(t, a.Uint32(), b.Uint32())
}

// Known answers from the reference mulberry32 (JavaScript, Math.imul).
func TestRNGKnownAnswers(t *testing.T) {
	r := NewRNG(42)
	want := []uint32{2581720956, 1925393290, 3661312704, 2876485805, 750819978}
	for i, w := range want {
		assert.Equal(t, w, r.Uint32(), "draw %d", i)
	}

	r = NewRNG(1)
	assert.Equal(t, []uint32{2693262067, 11749833, 2265367787}, []uint32{r.Uint32(), r.Uint32(), r.Uint32()})

	r = NewRNG(42)
	assert.InDelta(t, 0.6011037519201636, r.Float64(), 1e-15)
}
