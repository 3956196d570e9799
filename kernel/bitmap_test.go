package main

import "testing"

func TestBitmapSetClearTest(t *testing.T) {
	b := newBitmap(200)

	for _, bit := range []int{0, 63, 64, 127, 199} {
		if b.test(bit) {
			t.Fatalf("bit %d should start clear", bit)
		}
		b.set(bit)
		if !b.test(bit) {
			t.Errorf("bit %d should be set", bit)
		}
		b.clear(bit)
		if b.test(bit) {
			t.Errorf("bit %d should be clear again", bit)
		}
	}
}

func TestBitmapRangeWithinWord(t *testing.T) {
	b := newBitmap(64)
	b.setRange(4, 8)

	for i := 0; i < 64; i++ {
		want := i >= 4 && i < 12
		if b.test(i) != want {
			t.Errorf("bit %d = %v, want %v", i, b.test(i), want)
		}
	}

	b.clearRange(4, 8)
	for i := 0; i < 64; i++ {
		if b.test(i) {
			t.Errorf("bit %d should be clear after clearRange", i)
		}
	}
}

func TestBitmapRangeCrossesWords(t *testing.T) {
	b := newBitmap(200)
	b.setRange(60, 20) // spans bits 60..79, crossing the word 0/1 boundary at 64

	for i := 0; i < 200; i++ {
		want := i >= 60 && i < 80
		if b.test(i) != want {
			t.Errorf("bit %d = %v, want %v", i, b.test(i), want)
		}
	}

	b.clearRange(60, 20)
	for i := 60; i < 80; i++ {
		if b.test(i) {
			t.Errorf("bit %d should be clear after clearRange", i)
		}
	}
}

func TestMaskHelpers(t *testing.T) {
	if maskGeq(0) != ^uint64(0) {
		t.Errorf("maskGeq(0) should set every bit")
	}
	if maskLt(0) != 0 {
		t.Errorf("maskLt(0) should set no bits")
	}
	if maskGeq(60)&maskLt(60) != 0 {
		t.Errorf("maskGeq(60) and maskLt(60) should not overlap")
	}
	if maskGeq(60)|maskLt(60) != ^uint64(0) {
		t.Errorf("maskGeq(60) and maskLt(60) should cover every bit")
	}
}
