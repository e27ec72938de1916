package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{9.5, "$9.50"},
		{42, "$42"},
		{1234.4, "$1,234"},
		{1234567, "$1,234,567"},
		{-80, "-$80"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "$950"},
		{1234, "$1.2K"},
		{2500000, "$2.5M"},
		{-4200, "-$4.2K"},
	}
	for _, tt := range tests {
		if got := FormatCompactMoney(tt.in); got != tt.want {
			t.Errorf("FormatCompactMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q, want 1,234,567", got)
	}
	if got := FormatNumber(121); got != "121" {
		t.Errorf("FormatNumber = %q, want 121", got)
	}
}

func TestFormatSignedPercent(t *testing.T) {
	if got := FormatSignedPercent(10); got != "+10%" {
		t.Errorf("FormatSignedPercent(10) = %q, want +10%%", got)
	}
	if got := FormatSignedPercent(-2.5); got != "-2.5%" {
		t.Errorf("FormatSignedPercent(-2.5) = %q, want -2.5%%", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(1500, 1000); got != "+$500" {
		t.Errorf("FormatDelta = %q, want +$500", got)
	}
	if got := FormatDelta(1000, 1500); got != "-$500" {
		t.Errorf("FormatDelta = %q, want -$500", got)
	}
}
