package rng

import (
	"errors"
	"testing"
)

func TestBetweenStaysInRange(t *testing.T) {
	r := New(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := r.Between(2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("Between(2, 5) = %d, out of range", v)
		}
		seen[v] = true
	}
	for v := 2; v <= 5; v++ {
		if !seen[v] {
			t.Errorf("Between(2, 5) never produced %d in 2000 draws", v)
		}
	}
}

func TestBetweenDegenerateRange(t *testing.T) {
	r := New(1)
	for i := 0; i < 10; i++ {
		if v := r.Between(3, 3); v != 3 {
			t.Errorf("Between(3, 3) = %d, expected 3", v)
		}
	}
}

func TestBetweenDeterministic(t *testing.T) {
	a := New(12345)
	b := New(12345)
	for i := 0; i < 100; i++ {
		va, vb := a.Between(0, 100), b.Between(0, 100)
		if va != vb {
			t.Fatalf("draw %d differs: %d vs %d", i, va, vb)
		}
	}
}

func TestBetweenInvalidRangePanics(t *testing.T) {
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("Between(5, 1) should panic")
		}
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrInvalidRange) {
			t.Errorf("panic value = %v, expected error wrapping ErrInvalidRange", rec)
		}
	}()
	New(1).Between(5, 1)
}

func TestZeroSeedUsesTime(t *testing.T) {
	r := New(0)
	if r.Seed() == 0 {
		t.Error("New(0) should pick a non-zero time-derived seed")
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(1, 1); err != nil {
		t.Errorf("ValidateRange(1, 1) = %v, expected nil", err)
	}
	if err := ValidateRange(2, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ValidateRange(2, 1) = %v, expected ErrInvalidRange", err)
	}
}
