package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexString acepta cualquier escalar JSON como texto.
// Números y booleanos se guardan con su representación textual;
// null, objetos y arreglos quedan sin valor.
type FlexString struct {
	Value *string
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	f.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Value = &s
	case 'n', '{', '[':
	default:
		// número o booleano
		s := string(data)
		f.Value = &s
	}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Ptr devuelve el valor tal cual llegó
func (f FlexString) Ptr() *string {
	return f.Value
}

// Trimmed devuelve el texto sin espacios laterales
func (f FlexString) Trimmed() string {
	if f.Value == nil {
		return ""
	}
	return strings.TrimSpace(*f.Value)
}

// OrNull convierte el texto vacío en null
func (f FlexString) OrNull() *string {
	if f.Value == nil || *f.Value == "" {
		return nil
	}
	s := *f.Value
	return &s
}

// Str construye un FlexString con valor
func Str(s string) FlexString {
	return FlexString{Value: &s}
}

// FlexNumber acepta números o textos numéricos (coma o punto decimal).
// Cualquier otra cosa queda sin valor.
type FlexNumber struct {
	Value *float64
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	f.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var raw string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	case 'n', 't', 'f', '{', '[':
		return nil
	default:
		raw = string(data)
	}
	if v, ok := ParseNumber(raw); ok {
		f.Value = &v
	}
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Num construye un FlexNumber con valor
func Num(v float64) FlexNumber {
	return FlexNumber{Value: &v}
}

// ParseNumber interpreta un texto numérico; acepta coma decimal
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// PedidoInput es el cuerpo de creación y actualización
type PedidoInput struct {
	NumeroPedido FlexString    `json:"numero_pedido"`
	Fecha        FlexString    `json:"fecha"`
	Cliente      FlexString    `json:"cliente"`
	Proyecto     FlexString    `json:"proyecto"`
	Disenador    FlexString    `json:"disenador"`
	Asesor       FlexString    `json:"asesor"`
	Puestos      []PuestoInput `json:"puestos"`
}

type PuestoInput struct {
	Nombre FlexString  `json:"nombre"`
	Items  []ItemInput `json:"items"`
}

type ItemInput struct {
	Codigo            FlexString `json:"codigo"`
	Descripcion       FlexString `json:"descripcion"`
	NotaH             FlexString `json:"nota_h"`
	NotaL             FlexString `json:"nota_l"`
	NotaProf          FlexString `json:"nota_prof"`
	NotaAdicional     FlexString `json:"nota_adicional"`
	CantidadUnitaria  FlexNumber `json:"cantidad_unitaria"`
	CantidadTipologia FlexNumber `json:"cantidad_tipologia"`
	CantidadTotal     FlexNumber `json:"cantidad_total"`
	Pintura           FlexString `json:"pintura"`
	AcabadosAdicional FlexString `json:"acabados_adicional"`
	Formica           FlexString `json:"formica"`
	Supercor          FlexString `json:"supercor"`
	Canto             FlexString `json:"canto"`
	Madecanto         FlexString `json:"madecanto"`
	Vidrio            FlexString `json:"vidrio"`
	Tela              FlexString `json:"tela"`
	Render            FlexString `json:"render"`
}
