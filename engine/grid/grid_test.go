package grid

import (
	"errors"
	"testing"
)

func TestNewRejectsBadSizes(t *testing.T) {
	if _, err := New(0, 32); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("New(0, 32) error = %v, want ErrInvalidCount", err)
	}
	if _, err := New(100, 0); !errors.Is(err, ErrInvalidColumns) {
		t.Errorf("New(100, 0) error = %v, want ErrInvalidColumns", err)
	}
}

func TestParticleMapping(t *testing.T) {
	g, err := New(4096, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Rows() != 128 {
		t.Errorf("Rows() = %d, want 128", g.Rows())
	}

	tests := []struct {
		index    int
		row, col int
	}{
		{0, 0, 0},
		{31, 0, 31},
		{32, 1, 0},
		{4095, 127, 31},
	}
	for _, tt := range tests {
		p, ok := g.Particle(tt.index)
		if !ok {
			t.Fatalf("Particle(%d) not ok", tt.index)
		}
		if p.Row != tt.row || p.Col != tt.col {
			t.Errorf("Particle(%d) = (%d, %d), want (%d, %d)", tt.index, p.Row, p.Col, tt.row, tt.col)
		}
		if back := g.Index(p.Row, p.Col); back != tt.index {
			t.Errorf("Index(%d, %d) = %d, want %d", p.Row, p.Col, back, tt.index)
		}
	}
}

func TestParticleOutOfRange(t *testing.T) {
	g, _ := New(10, 4)
	for _, i := range []int{-1, 10, 1010} {
		if _, ok := g.Particle(i); ok {
			t.Errorf("Particle(%d) ok, want out of range", i)
		}
	}
	if g.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3 for a partial last row", g.Rows())
	}
	if g.Index(2, 3) != -1 {
		t.Errorf("Index(2, 3) = %d, want -1 past the last particle", g.Index(2, 3))
	}
}

func TestMirrorCol(t *testing.T) {
	g, _ := New(64, 32)
	if g.MirrorCol(0) != 31 || g.MirrorCol(15) != 16 {
		t.Errorf("MirrorCol mismatch: %d %d", g.MirrorCol(0), g.MirrorCol(15))
	}
}
