package main

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{450000, "$450,000.00"},
		{-1234567.5, "-$1,234,567.50"},
	}
	for _, tc := range tests {
		if got := formatMoney(tc.in); got != tc.want {
			t.Fatalf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Orbital Dynamics Holdings", 10); got != "Orbital..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("  short ", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeCompanyWrapper(t *testing.T) {
	raw := map[string]any{
		"raised": 1000.0,
		"company": map[string]any{
			"companyValue":     5900000.0,
			"companyOwnership": 72.0,
			"borrow_capacity":  2950000.0,
		},
	}
	if got := asFloat(raw["raised"]); got != 1000 {
		t.Fatalf("raised = %v", got)
	}
	if err := renderCompanyPayload(raw["company"]); err != nil {
		t.Fatalf("render: %v", err)
	}
}
