package gpu

import "testing"

func TestNextPow2(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 2: 2, 3: 4, 5: 8, 1024: 1024, 1025: 2048}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestVertexBufferUploadGrowsCapacity(t *testing.T) {
	v := newVertexBuffer("test")
	v.upload(nil, make([]float32, 16))
	if v.capacity == 0 {
		t.Fatal("expected non-zero capacity after upload")
	}
	first := v.capacity
	v.upload(nil, make([]float32, 4))
	if v.capacity != first {
		t.Fatalf("capacity shrank on smaller upload: %d -> %d", first, v.capacity)
	}
}
