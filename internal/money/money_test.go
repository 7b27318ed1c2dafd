package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1000", want: "1000"},
		{in: "-400", want: "-400"},
		{in: " 1 000 000 ", want: "1000000"},
		{in: "12,5", want: "12.5"},
		{in: "0.01", want: "0.01"},
		{in: "+250", want: "250"},
		{in: "1.001", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "1e9", wantErr: true},
		{in: "12,5,0", wantErr: true},
		{in: "9999999999999999.99", want: "9999999999999999.99"},
		{in: "-9999999999999999.99", want: "-9999999999999999.99"},
		{in: "10000000000000000", wantErr: true},
		{in: "100000000000000000", wantErr: true},
		{in: "-10000000000000000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%q) err = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTooLarge(t *testing.T) {
	_, err := Parse("100 000 000 000 000 000")
	if !errors.Is(err, ErrTooLarge) || !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrTooLarge wrapped in ErrInvalidAmount", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		signed string
	}{
		{"0", "0", "0"},
		{"5000000", "5,000,000", "+5,000,000"},
		{"-400", "-400", "-400"},
		{"1234.5", "1,234.50", "+1,234.50"},
		{"-0.05", "-0.05", "-0.05"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			if got := Format(d); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
			if got := FormatSigned(d); got != tt.signed {
				t.Errorf("FormatSigned(%s) = %q, want %q", tt.in, got, tt.signed)
			}
		})
	}
}
