package account

import "testing"

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"john doe":    "John Doe",
		"MARY ANN":    "MARY ANN",
		"  extra  sp": "Extra Sp",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate_RejectsShortHolderName(t *testing.T) {
	if err := Validate("Jo", 6_500_000_000, "jo", "pw", "RFID0001", "1234"); err == nil {
		t.Fatalf("expected error for a 2-character holder name")
	}
}

func TestValidate_PhoneRange(t *testing.T) {
	cases := []struct {
		phone uint64
		ok   bool
	}{
		{5_999_999_999, false},
		{6_000_000_000, true},
		{9_999_999_999, true},
		{10_000_000_000, false},
	}
	for _, c := range cases {
		err := Validate("John Doe", c.phone, "john", "pw", "RFID0001", "1234")
		if (err == nil) != c.ok {
			t.Errorf("Validate(phone=%d) err=%v, want ok=%v", c.phone, err, c.ok)
		}
	}
}

func TestValidate_RejectsReservedUsername(t *testing.T) {
	if err := Validate("John Doe", 6_500_000_000, "Admin", "pw", "RFID0001", "1234"); err == nil {
		t.Fatalf("expected error for reserved username %q", "Admin")
	}
}

func TestValidate_RFIDLength(t *testing.T) {
	if err := Validate("John Doe", 6_500_000_000, "john", "pw", "SHORT", "1234"); err == nil {
		t.Fatalf("expected error for a 5-character rfid")
	}
}

func TestValidate_PINMustBeFourDigits(t *testing.T) {
	cases := []string{"123", "12345", "12a4", ""}
	for _, pin := range cases {
		if err := Validate("John Doe", 6_500_000_000, "john", "pw", "RFID0001", pin); err == nil {
			t.Errorf("Validate(pin=%q) should fail", pin)
		}
	}
	if err := Validate("John Doe", 6_500_000_000, "john", "pw", "RFID0001", "1234"); err != nil {
		t.Fatalf("Validate with a well-formed pin failed: %v", err)
	}
}
