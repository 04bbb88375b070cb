package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	if err != nil || d.ISO() != "2025-06-15" {
		t.Fatalf("expected 2025-06-15, got %q (err=%v)", d.ISO(), err)
	}
	for _, bad := range []string{"", "15/06/2025", "2025-13-01", "abc"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestEntryValidate(t *testing.T) {
	good := IncomeEntry{
		Date:        NewDate(2025, 1, 1),
		Description: "recording session",
		Client:      "Studio",
		AmountGross: MoneyFromCents(80000),
		VatType:     VatTaxable,
		Status:      StatusDone,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []IncomeEntry{
		{Date: Date{Time: time.Time{}}, Description: "a", Client: "c", VatType: VatTaxable, Status: StatusDone},
		{Date: NewDate(2025, 1, 1), Description: "", Client: "c", VatType: VatTaxable, Status: StatusDone},
		{Date: NewDate(2025, 1, 1), Description: "a", Client: "", VatType: VatTaxable, Status: StatusDone},
		{Date: NewDate(2025, 1, 1), Description: "a", Client: "c", VatType: "vat", Status: StatusDone},
		{Date: NewDate(2025, 1, 1), Description: "a", Client: "c", VatType: VatTaxable, Status: "open"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestVatAmount(t *testing.T) {
	rate := DefaultVatRatePercent // 17%
	cases := []struct {
		vat    VatType
		gross  int64
		expect string
	}{
		{VatTaxable, 10000, "17.00"},
		{VatInclusive, 11700, "17.00"},
		{VatZeroRated, 10000, "0.00"},
	}
	for i, tc := range cases {
		e := IncomeEntry{AmountGross: MoneyFromCents(tc.gross), VatType: tc.vat}
		if got := VatAmount(e, rate); got.String() != tc.expect {
			t.Fatalf("case %d: expected %s, got %s", i, tc.expect, got)
		}
	}
}
