package services

import "testing"

func f(v float64) *float64 { return &v }

func TestCalcularTotal(t *testing.T) {
	cases := []struct {
		name   string
		u, tip *float64
		want   *float64
	}{
		{"unit times typology", f(2), f(3), f(6)},
		{"typology zero uses unit", f(5), f(0), f(5)},
		{"no typology uses unit", f(4), nil, f(4)},
		{"nothing", nil, nil, nil},
		{"typology without unit", nil, f(3), nil},
		{"zero unit is empty", f(0), f(3), nil},
		{"negative typology uses unit", f(2), f(-1), f(2)},
		{"decimal exact", f(0.1), f(3), f(0.3)},
	}
	for _, tc := range cases {
		got := CalcularTotal(tc.u, tc.tip)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("%s: expected nil, got %v", tc.name, *got)
		case tc.want != nil && got == nil:
			t.Errorf("%s: expected %v, got nil", tc.name, *tc.want)
		case tc.want != nil && *got != *tc.want:
			t.Errorf("%s: expected %v, got %v", tc.name, *tc.want, *got)
		}
	}
}

func TestSumarCantidades(t *testing.T) {
	sum := SumarCantidades(f(0.1), nil, f(0.2))
	if sum.String() != "0.3" {
		t.Fatalf("Expected 0.3, got %s", sum.String())
	}
	if !SumarCantidades().IsZero() {
		t.Fatal("Expected zero for empty sum")
	}
}
