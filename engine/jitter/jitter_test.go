package jitter

import (
	"math"
	"testing"
)

func TestHashRange(t *testing.T) {
	for index := 0; index < 4096; index++ {
		for _, salt := range []int{0, SaltAscentDelay, SaltCruise, 5000} {
			v := At(index, salt)
			if v < 0 || v >= 1 || math.IsNaN(v) {
				t.Fatalf("At(%d, %d) = %v, want [0, 1)", index, salt, v)
			}
		}
	}
}

func TestHashIsRepeatable(t *testing.T) {
	for index := 0; index < 256; index++ {
		a := At(index, SaltFinaleScatter)
		b := At(index, SaltFinaleScatter)
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Fatalf("At(%d) not bit-identical: %v vs %v", index, a, b)
		}
	}
}

func TestHashSpread(t *testing.T) {
	// A usable jitter source must not collapse: bucket 4096 samples into 10 bins and expect each
	// bin to be reasonably populated.
	var bins [10]int
	for index := 0; index < 4096; index++ {
		bins[int(At(index, SaltCruise)*10)]++
	}
	for i, n := range bins {
		if n < 250 || n > 570 {
			t.Errorf("bin %d holds %d samples, distribution looks degenerate: %v", i, n, bins)
		}
	}
}

func TestSaltsDecorrelate(t *testing.T) {
	same := 0
	for index := 0; index < 1024; index++ {
		if math.Abs(At(index, SaltAscentDelay)-At(index, SaltCruise)) < 1e-9 {
			same++
		}
	}
	if same > 0 {
		t.Errorf("%d indices hashed identically under different salts", same)
	}
}

func TestRangeAndDirection(t *testing.T) {
	for index := 0; index < 512; index++ {
		v := Range(index, 3, 2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("Range = %v, want [2, 5)", v)
		}
		d := Direction(index, SaltFinaleScatter)
		if l := d.Length(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("Direction length = %v, want 1", l)
		}
	}
}
