package money

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"125.50", 12550, false},
		{"0.01", 1, false},
		{"0", 0, false},
		{"1000", 100000, false},
		{"99.9", 9990, false},
		{"-42.10", -4210, false},
		{"12.345", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCents(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCents(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePositiveCents(t *testing.T) {
	if _, err := ParsePositiveCents("0"); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := ParsePositiveCents("-5.00"); err == nil {
		t.Error("expected error for negative amount")
	}
	got, err := ParsePositiveCents("5.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(12550); got != "125.50" {
		t.Errorf("expected 125.50, got %s", got)
	}
	if got := FormatCents(-4210); got != "-42.10" {
		t.Errorf("expected -42.10, got %s", got)
	}
	if got := FormatCents(0); got != "0.00" {
		t.Errorf("expected 0.00, got %s", got)
	}
}
