package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/models"
	"github.com/yeiconcr1/integrador/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PedidoController struct {
	pedidos *services.PedidoService
	export  *services.ExportService
	log     *zap.Logger
}

// NewPedidoController создает новый экземпляр PedidoController
func NewPedidoController(pedidos *services.PedidoService, export *services.ExportService, log *zap.Logger) *PedidoController {
	return &PedidoController{pedidos: pedidos, export: export, log: log}
}

// ListPedidos
// GET /api/pedidos
func (pc *PedidoController) ListPedidos(c *gin.Context) {
	pedidos, err := pc.pedidos.ListPedidos()
	if err != nil {
		pc.internalError(c, "Error listando pedidos", err)
		return
	}
	c.JSON(http.StatusOK, pedidos)
}

// GetPedido devuelve el pedido con sus puestos e ítems
// GET /api/pedidos/:id
func (pc *PedidoController) GetPedido(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		pedidoNotFound(c)
		return
	}

	pedido, err := pc.pedidos.GetPedido(id)
	if errors.Is(err, services.ErrPedidoNotFound) {
		pedidoNotFound(c)
		return
	}
	if err != nil {
		pc.internalError(c, "Error obteniendo pedido", err)
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// CreatePedido
// POST /api/pedidos
func (pc *PedidoController) CreatePedido(c *gin.Context) {
	in, ok := bindPedido(c)
	if !ok {
		return
	}

	id, err := pc.pedidos.CreatePedido(in)
	if err != nil {
		pc.internalError(c, "Error creando pedido", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Pedido creado"})
}

// UpdatePedido reemplaza la cabecera y todo el árbol de puestos
// PUT /api/pedidos/:id
func (pc *PedidoController) UpdatePedido(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		pedidoNotFound(c)
		return
	}
	in, ok := bindPedido(c)
	if !ok {
		return
	}

	err := pc.pedidos.UpdatePedido(id, in)
	if errors.Is(err, services.ErrPedidoNotFound) {
		pedidoNotFound(c)
		return
	}
	if err != nil {
		pc.internalError(c, "Error actualizando pedido", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pedido actualizado"})
}

// DeletePedido es idempotente: un id inexistente también responde 200
// DELETE /api/pedidos/:id
func (pc *PedidoController) DeletePedido(c *gin.Context) {
	if id, ok := parseID(c); ok {
		if err := pc.pedidos.DeletePedido(id); err != nil {
			pc.internalError(c, "Error eliminando pedido", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pedido eliminado"})
}

// ExportPedido descarga la planilla INTEGRADOR del pedido
// GET /api/pedidos/:id/export
func (pc *PedidoController) ExportPedido(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		pedidoNotFound(c)
		return
	}

	filename, buf, err := pc.export.Export(id)
	if errors.Is(err, services.ErrPedidoNotFound) {
		pedidoNotFound(c)
		return
	}
	if err != nil {
		pc.internalError(c, "Error generando Excel", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (pc *PedidoController) internalError(c *gin.Context, msg string, err error) {
	pc.log.Error(msg,
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// bindPedido acepta cualquier JSON bien formado; un cuerpo vacío cuenta como {}
func bindPedido(c *gin.Context) (*models.PedidoInput, bool) {
	var in models.PedidoInput
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo leer el cuerpo"})
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &in, true
	}
	if err := json.Unmarshal(body, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return nil, false
	}
	return &in, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func pedidoNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
}
