package util

import "testing"

func TestXidGeneratorWrap(t *testing.T) {
	g := NewXidGenerator(0x1234)
	g.Seed(0xfffe)

	want := []uint32{0x1234fffe, 0x1234ffff, 0x12340000}
	for i, w := range want {
		if got := g.Next(); got != w {
			t.Fatalf("call %d: got %#x, want %#x", i, got, w)
		}
	}
}

func TestCookieGeneratorWrap(t *testing.T) {
	g := NewCookieGenerator(0x0001)
	g.Seed(cookieCounterMask)

	first := g.Next()
	if want := uint64(0x0001)<<48 | cookieCounterMask; first != want {
		t.Fatalf("got %#x, want %#x", first, want)
	}
	second := g.Next()
	if want := uint64(0x0001) << 48; second != want {
		t.Fatalf("got %#x, want %#x", second, want)
	}
}

func TestPad64(t *testing.T) {
	cases := map[int]int{0: 0, 1: 7, 7: 1, 8: 0, 9: 7, 16: 0}
	for n, want := range cases {
		if got := Pad64(n); got != want {
			t.Fatalf("Pad64(%d) = %d, want %d", n, got, want)
		}
	}
}
