package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yeiconcr1/integrador/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogoLimit = 25
	articuloLimit = 15

	cachePrefixCatalogos = "integrador:catalogos:"
	cachePrefixArticulos = "integrador:articulos:"
)

// ErrArticuloNotFound se devuelve cuando el código no existe en PT ni en MP
var ErrArticuloNotFound = errors.New("artículo no encontrado")

// SearchCache es el kv opcional para cachear búsquedas
type SearchCache interface {
	GetJSON(key string, dest interface{}) error
	Set(key string, value interface{}, ttl time.Duration) error
	DeletePattern(pattern string) error
	IsMiss(err error) bool
}

// CatalogService resuelve catálogos de acabados y artículos
type CatalogService struct {
	db    *gorm.DB
	log   *zap.Logger
	cache SearchCache
	ttl   time.Duration
}

// NewCatalogService создает новый экземпляр CatalogService
func NewCatalogService(db *gorm.DB, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{db: db, log: log}
}

// WithCache activa el cache de búsquedas
func (s *CatalogService) WithCache(cache SearchCache, ttl time.Duration) *CatalogService {
	s.cache = cache
	s.ttl = ttl
	return s
}

// SearchCatalog devuelve hasta 25 descripciones del tipo.
// Sin q se ordenan alfabéticamente; con q el filtro distingue mayúsculas
// y se conserva el orden de inserción.
func (s *CatalogService) SearchCatalog(tipo, q string) ([]string, error) {
	key := cachePrefixCatalogos + tipo + ":" + q
	result := []string{}
	if s.cacheGet(key, &result) {
		return result, nil
	}

	query := s.db.Model(&models.Catalogo{}).Where("tipo = ?", tipo)
	if strings.TrimSpace(q) != "" {
		query = query.Where("descripcion LIKE ? ESCAPE '\\'", "%"+escapeLike(q)+"%").Order("id")
	} else {
		query = query.Order("descripcion")
	}

	if err := query.Limit(catalogoLimit).Pluck("descripcion", &result).Error; err != nil {
		return nil, fmt.Errorf("error buscando catálogo %s: %w", tipo, err)
	}
	if result == nil {
		result = []string{}
	}

	s.cacheSet(key, result)
	return result, nil
}

// SearchArticles busca materia prima por prefijo de código o por
// descripción sin distinguir mayúsculas. Con menos de 3 caracteres no busca.
func (s *CatalogService) SearchArticles(q string) ([]models.Articulo, error) {
	result := []models.Articulo{}
	if utf8.RuneCountInString(q) < 3 {
		return result, nil
	}

	key := cachePrefixArticulos + "buscar:" + q
	if s.cacheGet(key, &result) {
		return result, nil
	}

	escaped := escapeLike(q)
	err := s.db.Model(&models.Articulo{}).
		Select("codigo", "descripcion").
		Where("codigo LIKE ? ESCAPE '\\' OR UPPER(descripcion) LIKE ? ESCAPE '\\'",
			escaped+"%", "%"+strings.ToUpper(escaped)+"%").
		Order("id").
		Limit(articuloLimit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("error buscando artículos: %w", err)
	}

	s.cacheSet(key, result)
	return result, nil
}

// LookupArticulo busca el código primero en PT y después en MP
func (s *CatalogService) LookupArticulo(codigo string) (*models.Articulo, error) {
	key := cachePrefixArticulos + "lookup:" + codigo
	var cached models.Articulo
	if s.cacheGet(key, &cached) {
		return &cached, nil
	}

	articulo, err := lookupArticulo(s.db, codigo)
	if err != nil {
		return nil, err
	}

	s.cacheSet(key, articulo)
	return articulo, nil
}

// lookupArticulo se comparte con el repositorio de pedidos para resolver
// descripciones dentro de la misma transacción
func lookupArticulo(db *gorm.DB, codigo string) (*models.Articulo, error) {
	var pt models.ArticuloPT
	err := db.Select("codigo", "descripcion").Where("codigo = ?", codigo).Take(&pt).Error
	if err == nil {
		return &models.Articulo{Codigo: pt.Codigo, Descripcion: pt.Descripcion}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error buscando código %s en PT: %w", codigo, err)
	}

	var mp models.Articulo
	err = db.Select("codigo", "descripcion").Where("codigo = ?", codigo).Take(&mp).Error
	if err == nil {
		return &mp, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticuloNotFound
	}
	return nil, fmt.Errorf("error buscando código %s en MP: %w", codigo, err)
}

// InvalidateCache borra todas las búsquedas cacheadas
func (s *CatalogService) InvalidateCache() {
	if s.cache == nil {
		return
	}
	for _, prefix := range []string{cachePrefixCatalogos, cachePrefixArticulos} {
		if err := s.cache.DeletePattern(prefix + "*"); err != nil {
			s.log.Warn("No se pudo limpiar el cache", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func (s *CatalogService) cacheGet(key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(key, dest); err != nil {
		if !s.cache.IsMiss(err) {
			s.log.Debug("No se pudo leer del cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, value, s.ttl); err != nil {
		s.log.Debug("No se pudo guardar en cache", zap.String("key", key), zap.Error(err))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutraliza los comodines de LIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
