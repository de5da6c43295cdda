package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yeiconcr1/integrador/internal/database"
	"github.com/yeiconcr1/integrador/internal/models"
)

var dbCounter int64

// SetupTestDB creates an isolated in-memory SQLite database with all tables migrated.
// Each call gets its own named shared-cache database that disappears when closed.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbCounter, 1))

	db, err := database.Connect("sqlite", dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		database.Close(db)
	})
	return db
}

// SeedArticulos inserts raw-material rows (codigo → descripcion)
func SeedArticulos(t *testing.T, db *gorm.DB, rows map[string]string) {
	t.Helper()
	for codigo, desc := range rows {
		if err := db.Create(&models.Articulo{Codigo: codigo, Descripcion: desc}).Error; err != nil {
			t.Fatalf("Failed to seed articulo %s: %v", codigo, err)
		}
	}
}

// SeedArticulosPT inserts finished-product rows (codigo → descripcion)
func SeedArticulosPT(t *testing.T, db *gorm.DB, rows map[string]string) {
	t.Helper()
	for codigo, desc := range rows {
		if err := db.Create(&models.ArticuloPT{Codigo: codigo, Descripcion: desc}).Error; err != nil {
			t.Fatalf("Failed to seed articulo PT %s: %v", codigo, err)
		}
	}
}

// SeedCatalogo inserts descriptions for one catalog type in the given order
func SeedCatalogo(t *testing.T, db *gorm.DB, tipo string, descripciones ...string) {
	t.Helper()
	for _, d := range descripciones {
		if err := db.Create(&models.Catalogo{Tipo: tipo, Descripcion: d}).Error; err != nil {
			t.Fatalf("Failed to seed catalogo %s/%s: %v", tipo, d, err)
		}
	}
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// SetupRouter creates a bare gin router in test mode
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// DoRequest executes an HTTP request against the router.
// A string body is sent as-is; anything else is JSON encoded.
func DoRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes a JSON object response
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
