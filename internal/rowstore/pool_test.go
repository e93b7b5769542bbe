package rowstore

import "testing"

func TestVectorGrowDoubles(t *testing.T) {
	v := newVector(4)
	v.Write(0, []float32{1, 2, 3, 4, 5})
	if v.Cap() < 8 {
		t.Fatalf("expected capacity to double past 4, got %d", v.Cap())
	}
	if v.Len() != 5 {
		t.Fatalf("expected length 5, got %d", v.Len())
	}
}

func TestVectorWritePastEndExtendsLength(t *testing.T) {
	v := newVector(8)
	v.Write(0, []float32{1, 2})
	v.Write(4, []float32{3, 4})
	if v.Len() != 6 {
		t.Fatalf("expected length 6, got %d", v.Len())
	}
}

func TestVectorTruncateDoesNotShrinkCapacity(t *testing.T) {
	v := newVector(4)
	v.Write(0, []float32{1, 2, 3, 4})
	cap0 := v.Cap()
	v.Truncate(0)
	if v.Cap() != cap0 {
		t.Fatal("truncate should not release backing capacity")
	}
	if v.Len() != 0 {
		t.Fatal("expected length 0 after truncate")
	}
}

func TestVectorTranslateShiftsStridedComponent(t *testing.T) {
	v := newVector(8)
	v.Write(0, []float32{0, 1, 2, 3}) // two (x,y) pairs
	v.Translate(0, 4, 2, 1, 10)       // shift the y (odd-index) components
	got := v.Slice(0, 4)
	want := []float32{0, 11, 2, 13}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
