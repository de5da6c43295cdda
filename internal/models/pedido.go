package models

import "time"

// Pedido es la cabecera de un pedido del taller
type Pedido struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	NumeroPedido *string   `json:"numero_pedido" gorm:"type:text"`
	Fecha        *string   `json:"fecha" gorm:"type:text"`
	Cliente      *string   `json:"cliente" gorm:"type:text"`
	Proyecto     *string   `json:"proyecto" gorm:"type:text"`
	Disenador    *string   `json:"disenador" gorm:"type:text"`
	Asesor       *string   `json:"asesor" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime;index"`

	Puestos []PuestoTrabajo `json:"puestos" gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string {
	return "pedidos"
}

// PuestoTrabajo agrupa los artículos de un puesto dentro del pedido
type PuestoTrabajo struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	PedidoID int64  `json:"pedido_id" gorm:"not null;index"`
	Nombre   string `json:"nombre" gorm:"type:text;not null;default:'Puesto de trabajo'"`
	Orden    int    `json:"orden" gorm:"not null;default:0"`

	Items []PuestoItem `json:"items" gorm:"foreignKey:PuestoID;constraint:OnDelete:CASCADE"`
}

func (PuestoTrabajo) TableName() string {
	return "puestos_trabajo"
}

// PuestoItem es una línea de producto. Los campos de acabado guardan
// texto libre; no hay FK hacia catalogos.
type PuestoItem struct {
	ID                int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	PuestoID          int64    `json:"puesto_id" gorm:"not null;index"`
	Orden             int      `json:"orden" gorm:"not null;default:0"`
	Codigo            *string  `json:"codigo" gorm:"type:text"`
	Descripcion       *string  `json:"descripcion" gorm:"type:text"`
	NotaH             *string  `json:"nota_h" gorm:"type:text"`
	NotaL             *string  `json:"nota_l" gorm:"type:text"`
	NotaProf          *string  `json:"nota_prof" gorm:"type:text"`
	NotaAdicional     *string  `json:"nota_adicional" gorm:"type:text"`
	CantidadUnitaria  *float64 `json:"cantidad_unitaria"`
	CantidadTipologia *float64 `json:"cantidad_tipologia"`
	CantidadTotal     *float64 `json:"cantidad_total"`
	Pintura           *string  `json:"pintura" gorm:"type:text"`
	AcabadosAdicional *string  `json:"acabados_adicional" gorm:"type:text"`
	Formica           *string  `json:"formica" gorm:"type:text"`
	Supercor          *string  `json:"supercor" gorm:"type:text"`
	Canto             *string  `json:"canto" gorm:"type:text"`
	Madecanto         *string  `json:"madecanto" gorm:"type:text"`
	Vidrio            *string  `json:"vidrio" gorm:"type:text"`
	Tela              *string  `json:"tela" gorm:"type:text"`
	Render            *string  `json:"render" gorm:"type:text"`
}

func (PuestoItem) TableName() string {
	return "puesto_items"
}

// PedidoResumen es la fila del listado con los contadores agregados
type PedidoResumen struct {
	ID           int64     `json:"id"`
	NumeroPedido *string   `json:"numero_pedido"`
	Fecha        *string   `json:"fecha"`
	Cliente      *string   `json:"cliente"`
	Proyecto     *string   `json:"proyecto"`
	Disenador    *string   `json:"disenador"`
	Asesor       *string   `json:"asesor"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	TotalPuestos int64     `json:"total_puestos"`
	TotalItems   int64     `json:"total_items"`
}
