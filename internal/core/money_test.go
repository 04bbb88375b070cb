package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.005", "0.01", true}, // half away from zero
		{" 2.50 ", "2.50", true},
		{"0", "0.00", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyAddSubRoundTrip(t *testing.T) {
	// add(a, b) - b must get back to a within a cent for two-decimal inputs
	pairs := [][2]string{
		{"0.01", "0.02"},
		{"1000.00", "200.50"},
		{"19.99", "0.01"},
		{"3333.33", "6666.67"},
	}
	tolerance := MoneyFromCents(1)
	for _, p := range pairs {
		a, _ := ParseAmount(p[0])
		b, _ := ParseAmount(p[1])
		got := a.Add(b).Sub(b)
		diff := got.Sub(a)
		if diff.IsNegative() {
			diff = Zero.Sub(diff)
		}
		if diff.Cmp(tolerance) > 0 {
			t.Fatalf("add/sub round trip for (%s, %s): got %s, want %s", a, b, got, a)
		}
	}
}

func TestMoneyRoundsEachOperation(t *testing.T) {
	a := MoneyFromCents(1000) // 10.00
	third := a.Div(MoneyFromCents(300))
	if third.String() != "3.33" {
		t.Fatalf("expected 3.33, got %s", third)
	}
	if got := third.Mul(MoneyFromCents(300)); got.String() != "9.99" {
		t.Fatalf("expected 9.99 after rounding at each step, got %s", got)
	}
}

func TestMoneyCents(t *testing.T) {
	m, _ := ParseAmount("12.34")
	if m.Cents() != 1234 {
		t.Fatalf("expected 1234 cents, got %d", m.Cents())
	}
	if got := MoneyFromCents(1234); !got.Equal(m) {
		t.Fatalf("cents round trip mismatch: %s", got)
	}
}

func TestMoneyDivByZero(t *testing.T) {
	if got := MoneyFromCents(100).Div(Zero); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}
