package api

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/services"
)

// Version se informa en /api/health
var Version = "1.0.0"

// exportPathRegex: la descarga del xlsx ya está comprimida
const exportPathRegex = `^/api/pedidos/[^/]+/export$`

// RouterDeps reúne lo que necesita el router
type RouterDeps struct {
	Catalog *services.CatalogService
	Pedidos *services.PedidoService
	Export  *services.ExportService
	Static  fs.FS // raíz con index.html; nil = sin UI
	Log     *zap.Logger
}

// SetupRouter arma el engine con middleware, API y UI estática
func SetupRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger(log))
	r.Use(RequestID())
	r.Use(CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{exportPathRegex})))

	catalog := NewCatalogController(deps.Catalog, log)
	pedidos := NewPedidoController(deps.Pedidos, deps.Export, log)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "integrador",
				"version": Version,
			})
		})

		apiGroup.GET("/catalogos/:tipo", catalog.SearchCatalog)
		apiGroup.GET("/articulos/buscar", catalog.SearchArticles)
		apiGroup.GET("/articulos/lookup/:codigo", catalog.LookupArticulo)

		apiGroup.GET("/pedidos", pedidos.ListPedidos)
		apiGroup.POST("/pedidos", pedidos.CreatePedido)
		apiGroup.GET("/pedidos/:id", pedidos.GetPedido)
		apiGroup.PUT("/pedidos/:id", pedidos.UpdatePedido)
		apiGroup.DELETE("/pedidos/:id", pedidos.DeletePedido)
		apiGroup.GET("/pedidos/:id/export", pedidos.ExportPedido)
	}

	r.NoRoute(staticHandler(deps.Static))
	return r
}

// staticHandler sirve los archivos de la UI y cae a index.html para
// cualquier otra ruta GET. Bajo /api responde 404 JSON.
func staticHandler(static fs.FS) gin.HandlerFunc {
	var files http.FileSystem
	if static != nil {
		files = http.FS(static)
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ruta no encontrada"})
			return
		}
		if static == nil || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ruta no encontrada"})
			return
		}

		name := strings.TrimPrefix(path.Clean(p), "/")
		if name != "" && name != "index.html" {
			if info, err := fs.Stat(static, name); err == nil && !info.IsDir() {
				c.FileFromFS(name, files)
				return
			}
		}

		index, err := fs.ReadFile(static, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "index.html no encontrado")
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}
}
