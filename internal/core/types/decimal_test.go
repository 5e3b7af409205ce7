package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 120_000, false},
		{"12.5", 125_000, false},
		{"0.0001", 1, false},
		{"-3.25", -32_500, false},
		{"+7", 70_000, false},
		{" 4.2 ", 42_000, false},
		{".5", 5_000, false},
		{"", 0, true},
		{".", 0, true},
		{"abc", 0, true},
		{"1.00001", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		in   Quantity
		want string
	}{
		{0, "0"},
		{120_000, "12"},
		{125_000, "12.5"},
		{1, "0.0001"},
		{-32_500, "-3.25"},
		{51_500, "5.15"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Quantity(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := QuantityFromFloat(5.15)

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "5.15" {
		t.Errorf("marshal = %s, want bare number", data)
	}

	var back Quantity
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != q {
		t.Errorf("round trip = %d, want %d", back, q)
	}

	// Clients send quantities as strings too.
	if err := json.Unmarshal([]byte(`"2.5"`), &back); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if back != QuantityFromFloat(2.5) {
		t.Errorf("quoted unmarshal = %d", back)
	}
}

func TestQuantityMulRate(t *testing.T) {
	// 0.5 * 1.03 = 0.515, exact at quantity scale.
	rate := decimal.NewFromFloat(1.03)
	if got := QuantityFromFloat(0.5).MulRate(rate); got != QuantityFromFloat(0.515) {
		t.Errorf("MulRate = %s, want 0.515", got)
	}

	// Rounds half away from zero at the 4th decimal.
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	if got := QuantityFromInt(1).MulRate(third); got != Quantity(3333) {
		t.Errorf("MulRate(1/3) = %d, want 3333", got)
	}
}

func TestQuantityDecimalConversion(t *testing.T) {
	q := QuantityFromFloat(12.5)
	if got := QuantityFromDecimal(q.Decimal()); got != q {
		t.Errorf("decimal round trip = %d, want %d", got, q)
	}

	d := decimal.RequireFromString("0.00005")
	if got := QuantityFromDecimal(d); got != Quantity(1) {
		t.Errorf("QuantityFromDecimal(0.00005) = %d, want rounded 1", got)
	}
}

func TestQuantityExactArithmetic(t *testing.T) {
	// 0.1 + 0.2 is exact in fixed point, unlike float64.
	sum := QuantityFromFloat(0.1) + QuantityFromFloat(0.2)
	if sum != QuantityFromFloat(0.3) {
		t.Errorf("0.1 + 0.2 = %s", sum)
	}
}
