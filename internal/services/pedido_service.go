package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeiconcr1/integrador/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPedidoNotFound se devuelve cuando el pedido no existe
var ErrPedidoNotFound = errors.New("pedido no encontrado")

// PedidoService es el repositorio de pedidos, puestos e ítems
type PedidoService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPedidoService создает новый экземпляр PedidoService
func NewPedidoService(db *gorm.DB, log *zap.Logger) *PedidoService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PedidoService{db: db, log: log}
}

const listPedidosSQL = `
SELECT p.id, p.numero_pedido, p.fecha, p.cliente, p.proyecto, p.disenador, p.asesor,
       p.created_at, p.updated_at,
       (SELECT COUNT(*) FROM puestos_trabajo pt WHERE pt.pedido_id = p.id) AS total_puestos,
       (SELECT COUNT(*) FROM puesto_items pi
          JOIN puestos_trabajo pt ON pi.puesto_id = pt.id
         WHERE pt.pedido_id = p.id) AS total_items
  FROM pedidos p
 ORDER BY p.updated_at DESC, p.id DESC`

// ListPedidos devuelve los resúmenes, el modificado más reciente primero
func (s *PedidoService) ListPedidos() ([]models.PedidoResumen, error) {
	pedidos := []models.PedidoResumen{}
	if err := s.db.Raw(listPedidosSQL).Scan(&pedidos).Error; err != nil {
		return nil, fmt.Errorf("error listando pedidos: %w", err)
	}
	return pedidos, nil
}

// GetPedido devuelve el árbol completo con puestos e ítems en su orden
func (s *PedidoService) GetPedido(id int64) (*models.Pedido, error) {
	var pedido models.Pedido
	err := s.db.
		Preload("Puestos", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC, id ASC") }).
		Preload("Puestos.Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC, id ASC") }).
		Where("id = ?", id).
		Take(&pedido).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPedidoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error obteniendo pedido %d: %w", id, err)
	}

	if pedido.Puestos == nil {
		pedido.Puestos = []models.PuestoTrabajo{}
	}
	for i := range pedido.Puestos {
		if pedido.Puestos[i].Items == nil {
			pedido.Puestos[i].Items = []models.PuestoItem{}
		}
	}
	return &pedido, nil
}

// CreatePedido inserta la cabecera y su árbol en una transacción
func (s *PedidoService) CreatePedido(in *models.PedidoInput) (int64, error) {
	var id int64
	err := s.inTx(func(tx *gorm.DB) error {
		var err error
		id, err = s.createPedido(tx, in)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Pedido creado", zap.Int64("id", id), zap.Int("puestos", len(in.Puestos)))
	return id, nil
}

func (s *PedidoService) createPedido(tx *gorm.DB, in *models.PedidoInput) (int64, error) {
	pedido := models.Pedido{
		NumeroPedido: in.NumeroPedido.Ptr(),
		Fecha:        in.Fecha.Ptr(),
		Cliente:      in.Cliente.Ptr(),
		Proyecto:     in.Proyecto.Ptr(),
		Disenador:    in.Disenador.Ptr(),
		Asesor:       in.Asesor.Ptr(),
	}
	if err := tx.Omit(clause.Associations).Create(&pedido).Error; err != nil {
		return 0, fmt.Errorf("error creando pedido: %w", err)
	}
	if err := s.ReplaceOrderTree(tx, pedido.ID, in.Puestos); err != nil {
		return 0, err
	}
	return pedido.ID, nil
}

// UpdatePedido reemplaza cabecera y árbol. Devuelve ErrPedidoNotFound si no existe.
func (s *PedidoService) UpdatePedido(id int64, in *models.PedidoInput) error {
	err := s.inTx(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Pedido{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("error verificando pedido %d: %w", id, err)
		}
		if count == 0 {
			return ErrPedidoNotFound
		}

		err := tx.Model(&models.Pedido{}).Where("id = ?", id).Updates(map[string]interface{}{
			"numero_pedido": in.NumeroPedido.Ptr(),
			"fecha":         in.Fecha.Ptr(),
			"cliente":       in.Cliente.Ptr(),
			"proyecto":      in.Proyecto.Ptr(),
			"disenador":     in.Disenador.Ptr(),
			"asesor":        in.Asesor.Ptr(),
			"updated_at":    time.Now().UTC(),
		}).Error
		if err != nil {
			return fmt.Errorf("error actualizando pedido %d: %w", id, err)
		}
		return s.ReplaceOrderTree(tx, id, in.Puestos)
	})
	if err != nil {
		return err
	}
	s.log.Info("Pedido actualizado", zap.Int64("id", id), zap.Int("puestos", len(in.Puestos)))
	return nil
}

// DeletePedido borra el pedido con todo su árbol; si no existe no hace nada
func (s *PedidoService) DeletePedido(id int64) error {
	return s.inTx(func(tx *gorm.DB) error {
		if err := s.deleteTree(tx, id); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Pedido{}).Error; err != nil {
			return fmt.Errorf("error borrando pedido %d: %w", id, err)
		}
		return nil
	})
}

// ReplaceAllPedidos borra todos los pedidos y crea los recibidos,
// dentro de la transacción del llamador
func (s *PedidoService) ReplaceAllPedidos(tx *gorm.DB, inputs []models.PedidoInput) ([]int64, error) {
	if err := tx.Where("1 = 1").Delete(&models.PuestoItem{}).Error; err != nil {
		return nil, fmt.Errorf("error borrando ítems: %w", err)
	}
	if err := tx.Where("1 = 1").Delete(&models.PuestoTrabajo{}).Error; err != nil {
		return nil, fmt.Errorf("error borrando puestos: %w", err)
	}
	if err := tx.Where("1 = 1").Delete(&models.Pedido{}).Error; err != nil {
		return nil, fmt.Errorf("error borrando pedidos: %w", err)
	}

	ids := make([]int64, 0, len(inputs))
	for i := range inputs {
		id, err := s.createPedido(tx, &inputs[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReplaceOrderTree borra todos los puestos e ítems del pedido e inserta
// los recibidos: el puesto i con orden i y el ítem j con orden j.
func (s *PedidoService) ReplaceOrderTree(tx *gorm.DB, pedidoID int64, puestos []models.PuestoInput) error {
	if err := s.deleteTree(tx, pedidoID); err != nil {
		return err
	}

	for pIdx, in := range puestos {
		puesto := models.PuestoTrabajo{
			PedidoID: pedidoID,
			Nombre:   NombrePuesto(in.Nombre.Trimmed(), pIdx),
			Orden:    pIdx,
		}
		if err := tx.Omit(clause.Associations).Create(&puesto).Error; err != nil {
			return fmt.Errorf("error creando puesto %d: %w", pIdx+1, err)
		}
		if len(in.Items) == 0 {
			continue
		}

		items := make([]models.PuestoItem, 0, len(in.Items))
		for iIdx := range in.Items {
			item, err := s.buildItem(tx, puesto.ID, iIdx, &in.Items[iIdx])
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(items, 100).Error; err != nil {
			return fmt.Errorf("error creando ítems del puesto %s: %w", puesto.Nombre, err)
		}
	}
	return nil
}

func (s *PedidoService) deleteTree(tx *gorm.DB, pedidoID int64) error {
	puestoIDs := tx.Model(&models.PuestoTrabajo{}).Select("id").Where("pedido_id = ?", pedidoID)
	if err := tx.Where("puesto_id IN (?)", puestoIDs).Delete(&models.PuestoItem{}).Error; err != nil {
		return fmt.Errorf("error borrando ítems del pedido %d: %w", pedidoID, err)
	}
	if err := tx.Where("pedido_id = ?", pedidoID).Delete(&models.PuestoTrabajo{}).Error; err != nil {
		return fmt.Errorf("error borrando puestos del pedido %d: %w", pedidoID, err)
	}
	return nil
}

func (s *PedidoService) buildItem(tx *gorm.DB, puestoID int64, orden int, in *models.ItemInput) (models.PuestoItem, error) {
	codigo := in.Codigo.OrNull()

	descripcion := in.Descripcion.Trimmed()
	if descripcion == "" && codigo != nil {
		articulo, err := lookupArticulo(tx, *codigo)
		switch {
		case err == nil:
			descripcion = articulo.Descripcion
		case !errors.Is(err, ErrArticuloNotFound):
			return models.PuestoItem{}, err
		}
	}

	unitaria := NormalizarCantidad(in.CantidadUnitaria.Value)
	tipologia := NormalizarCantidad(in.CantidadTipologia.Value)

	return models.PuestoItem{
		PuestoID:          puestoID,
		Orden:             orden,
		Codigo:            codigo,
		Descripcion:       nullIfEmpty(descripcion),
		NotaH:             in.NotaH.OrNull(),
		NotaL:             in.NotaL.OrNull(),
		NotaProf:          in.NotaProf.OrNull(),
		NotaAdicional:     in.NotaAdicional.OrNull(),
		CantidadUnitaria:  unitaria,
		CantidadTipologia: tipologia,
		CantidadTotal:     CalcularTotal(unitaria, tipologia),
		Pintura:           in.Pintura.OrNull(),
		AcabadosAdicional: in.AcabadosAdicional.OrNull(),
		Formica:           in.Formica.OrNull(),
		Supercor:          in.Supercor.OrNull(),
		Canto:             in.Canto.OrNull(),
		Madecanto:         in.Madecanto.OrNull(),
		Vidrio:            in.Vidrio.OrNull(),
		Tela:              in.Tela.OrNull(),
		Render:            in.Render.OrNull(),
	}, nil
}

// inTx ejecuta fn en una transacción; cualquier error o panic la revierte
func (s *PedidoService) inTx(fn func(tx *gorm.DB) error) (err error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("error iniciando transacción: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			s.log.Error("Transacción revertida por panic", zap.Any("panic", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("error confirmando transacción: %w", err)
	}
	return nil
}

// NombrePuesto normaliza el nombre: sin espacios laterales y en mayúsculas,
// o "PUESTO n" si llega vacío
func NombrePuesto(nombre string, index int) string {
	nombre = strings.ToUpper(strings.TrimSpace(nombre))
	if nombre == "" {
		return fmt.Sprintf("PUESTO %d", index+1)
	}
	return nombre
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
