package models

// Tipos de catálogo de acabados
const (
	TipoPintura   = "pintura"
	TipoFormica   = "formica"
	TipoSupercor  = "supercor"
	TipoCanto     = "canto"
	TipoMadecanto = "madecanto"
	TipoVidrio    = "vidrio"
	TipoTela      = "tela"
)

// TiposCatalogo en el orden en que se muestran
var TiposCatalogo = []string{
	TipoPintura, TipoFormica, TipoSupercor, TipoCanto, TipoMadecanto, TipoVidrio, TipoTela,
}

// EsTipoCatalogo indica si tipo pertenece al conjunto fijo
func EsTipoCatalogo(tipo string) bool {
	for _, t := range TiposCatalogo {
		if t == tipo {
			return true
		}
	}
	return false
}

// Catalogo es una opción de acabado
type Catalogo struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Tipo        string `json:"tipo" gorm:"type:text;not null;uniqueIndex:idx_catalogos_tipo_desc,priority:1"`
	Descripcion string `json:"descripcion" gorm:"type:text;not null;uniqueIndex:idx_catalogos_tipo_desc,priority:2"`
}

func (Catalogo) TableName() string {
	return "catalogos"
}

// Articulo es materia prima (MP)
type Articulo struct {
	ID          int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Codigo      string `json:"codigo" gorm:"type:text;not null;uniqueIndex"`
	Descripcion string `json:"descripcion" gorm:"type:text;not null"`
}

func (Articulo) TableName() string {
	return "articulos"
}

// ArticuloPT es producto terminado (PT)
type ArticuloPT struct {
	ID          int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Codigo      string `json:"codigo" gorm:"type:text;not null;uniqueIndex:idx_articulos_pt_codigo"`
	Descripcion string `json:"descripcion" gorm:"type:text;not null"`
}

func (ArticuloPT) TableName() string {
	return "articulos_pt"
}
