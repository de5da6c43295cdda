package services

import "github.com/shopspring/decimal"

// NormalizarCantidad trata el cero como ausencia de valor
func NormalizarCantidad(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	x := *v
	return &x
}

// CalcularTotal aplica la regla de cantidades de una línea:
// con tipología > 0 el total es unitaria × tipología (nulo si falta la unitaria),
// si no, el total es la unitaria; sin unitaria no hay total.
func CalcularTotal(unitaria, tipologia *float64) *float64 {
	unitaria = NormalizarCantidad(unitaria)
	tipologia = NormalizarCantidad(tipologia)

	if tipologia != nil && *tipologia > 0 {
		if unitaria == nil {
			return nil
		}
		total, _ := decimal.NewFromFloat(*unitaria).Mul(decimal.NewFromFloat(*tipologia)).Float64()
		return NormalizarCantidad(&total)
	}
	return unitaria
}

// SumarCantidades suma valores opcionales sin error de redondeo binario
func SumarCantidades(values ...*float64) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		if v != nil {
			sum = sum.Add(decimal.NewFromFloat(*v))
		}
	}
	return sum
}
