package models

import (
	"encoding/json"
	"testing"
)

func TestFlexStringAcceptsScalars(t *testing.T) {
	var in ItemInput
	body := `{"codigo": 12345678, "descripcion": "MESA", "nota_h": null, "nota_l": true, "nota_prof": {"x": 1}, "pintura": ""}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if in.Codigo.Value == nil || *in.Codigo.Value != "12345678" {
		t.Fatalf("Expected numeric codigo as text, got %v", in.Codigo.Value)
	}
	if in.Descripcion.Trimmed() != "MESA" {
		t.Fatalf("Expected MESA, got %q", in.Descripcion.Trimmed())
	}
	if in.NotaH.Value != nil {
		t.Fatal("Expected null nota_h")
	}
	if in.NotaL.Value == nil || *in.NotaL.Value != "true" {
		t.Fatalf("Expected boolean as text, got %v", in.NotaL.Value)
	}
	if in.NotaProf.Value != nil {
		t.Fatal("Expected object to become null")
	}
	if in.Pintura.OrNull() != nil {
		t.Fatal("Expected empty pintura to become null")
	}
	if in.Render.Value != nil {
		t.Fatal("Expected missing render to be null")
	}
}

func TestFlexNumber(t *testing.T) {
	cases := []struct {
		body string
		want *float64
	}{
		{`2`, ptr(2)},
		{`"3"`, ptr(3)},
		{`"1,5"`, ptr(1.5)},
		{`""`, nil},
		{`"abc"`, nil},
		{`null`, nil},
		{`true`, nil},
		{`[1]`, nil},
	}
	for _, tc := range cases {
		var n FlexNumber
		if err := json.Unmarshal([]byte(tc.body), &n); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", tc.body, err)
		}
		switch {
		case tc.want == nil && n.Value != nil:
			t.Errorf("%s: expected nil, got %v", tc.body, *n.Value)
		case tc.want != nil && (n.Value == nil || *n.Value != *tc.want):
			t.Errorf("%s: expected %v, got %v", tc.body, *tc.want, n.Value)
		}
	}
}

func TestEsTipoCatalogo(t *testing.T) {
	if !EsTipoCatalogo("supercor") {
		t.Fatal("supercor should be a catalog type")
	}
	if EsTipoCatalogo("madera") {
		t.Fatal("madera should not be a catalog type")
	}
}

func ptr(v float64) *float64 { return &v }
