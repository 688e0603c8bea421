package conv

import "testing"

func TestU32Hex(t *testing.T) {
	var buf [8]byte
	got := string(U32Hex(buf[:], 0xA1B2))
	if got != "0000A1B2" {
		t.Fatalf("U32Hex(0xA1B2) = %q, want %q", got, "0000A1B2")
	}
}

func TestU32Hex_ShortBufReturnsEmpty(t *testing.T) {
	buf := make([]byte, 4)
	if got := U32Hex(buf, 1); len(got) != 0 {
		t.Fatalf("U32Hex with a short buffer = %q, want empty", got)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int64]string{0: "0", 42: "42", -42: "-42", 1234567890: "1234567890"}
	var buf [20]byte
	for n, want := range cases {
		if got := string(Itoa(buf[:], n)); got != want {
			t.Errorf("Itoa(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestUtoa(t *testing.T) {
	cases := map[uint64]string{0: "0", 42: "42", 1234567890: "1234567890"}
	var buf [20]byte
	for n, want := range cases {
		if got := string(Utoa(buf[:], n)); got != want {
			t.Errorf("Utoa(%d) = %q, want %q", n, got, want)
		}
	}
}
