package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/services"
)

type CatalogController struct {
	service *services.CatalogService
	log     *zap.Logger
}

func NewCatalogController(service *services.CatalogService, log *zap.Logger) *CatalogController {
	return &CatalogController{service: service, log: log}
}

// SearchCatalog devuelve hasta 25 descripciones de un tipo de acabado
// GET /api/catalogos/:tipo?q=
func (cc *CatalogController) SearchCatalog(c *gin.Context) {
	result, err := cc.service.SearchCatalog(c.Param("tipo"), c.Query("q"))
	if err != nil {
		cc.log.Error("Error buscando catálogo", zap.String("tipo", c.Param("tipo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando catálogo"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchArticles autocompleta artículos de MP por código o descripción
// GET /api/articulos/buscar?q=
func (cc *CatalogController) SearchArticles(c *gin.Context) {
	result, err := cc.service.SearchArticles(c.Query("q"))
	if err != nil {
		cc.log.Error("Error buscando artículos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando artículos"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// LookupArticulo
// GET /api/articulos/lookup/:codigo
func (cc *CatalogController) LookupArticulo(c *gin.Context) {
	articulo, err := cc.service.LookupArticulo(c.Param("codigo"))
	if errors.Is(err, services.ErrArticuloNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado"})
		return
	}
	if err != nil {
		cc.log.Error("Error buscando artículo", zap.String("codigo", c.Param("codigo")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando artículo"})
		return
	}
	c.JSON(http.StatusOK, articulo)
}
