package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yeiconcr1/integrador/internal/models"
	"github.com/yeiconcr1/integrador/internal/testutil"
	"github.com/yeiconcr1/integrador/internal/utils"
)

func TestSearchCatalogCaseSensitiveAndCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)

	var descs []string
	for i := 0; i < 30; i++ {
		descs = append(descs, fmt.Sprintf("ROJO %02d", i))
	}
	descs = append(descs, "rojo claro", "AZUL")
	testutil.SeedCatalogo(t, db, models.TipoPintura, descs...)

	got, err := svc.SearchCatalog(models.TipoPintura, "ROJO")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("Expected 25 results, got %d", len(got))
	}
	for _, d := range got {
		if d == "rojo claro" {
			t.Fatal("Search must be case-sensitive")
		}
	}
	if got[0] != "ROJO 00" {
		t.Fatalf("Expected insertion order, got first %q", got[0])
	}

	lower, err := svc.SearchCatalog(models.TipoPintura, "rojo")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if len(lower) != 1 || lower[0] != "rojo claro" {
		t.Fatalf("Expected only the lower-case entry, got %v", lower)
	}
}

func TestSearchCatalogEmptyQuerySorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)
	testutil.SeedCatalogo(t, db, models.TipoVidrio, "TEMPLADO", "ESMERILADO", "CLARO")
	testutil.SeedCatalogo(t, db, models.TipoTela, "LINO")

	got, err := svc.SearchCatalog(models.TipoVidrio, "  ")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	want := []string{"CLARO", "ESMERILADO", "TEMPLADO"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}

	none, err := svc.SearchCatalog("madera", "")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("Expected empty non-nil slice, got %#v", none)
	}
}

func TestSearchCatalogEscapesWildcards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)
	testutil.SeedCatalogo(t, db, models.TipoCanto, "CANTO 100% PVC", "CANTO 1000 PVC")

	got, err := svc.SearchCatalog(models.TipoCanto, "100%")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if len(got) != 1 || got[0] != "CANTO 100% PVC" {
		t.Fatalf("Expected literal %% match, got %v", got)
	}
}

func TestSearchArticles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)
	testutil.SeedArticulos(t, db, map[string]string{
		"12345678": "TABLERO MDF 15MM",
		"12399999": "TORNILLO 8X1",
		"55500011": "CANTO RIGIDO 123",
	})
	for i := 0; i < 20; i++ {
		testutil.SeedArticulos(t, db, map[string]string{fmt.Sprintf("9000%04d", i): "BISAGRA CIERRE LENTO"})
	}

	short, _ := svc.SearchArticles("12")
	if len(short) != 0 {
		t.Fatalf("Expected no results for short query, got %d", len(short))
	}

	byCode, err := svc.SearchArticles("123")
	if err != nil {
		t.Fatalf("SearchArticles failed: %v", err)
	}
	if len(byCode) != 3 {
		t.Fatalf("Expected prefix and description matches, got %v", byCode)
	}

	byDesc, _ := svc.SearchArticles("mdf")
	if len(byDesc) != 1 || byDesc[0].Codigo != "12345678" {
		t.Fatalf("Expected case-insensitive description match, got %v", byDesc)
	}

	capped, _ := svc.SearchArticles("BISAGRA")
	if len(capped) != 15 {
		t.Fatalf("Expected 15 results, got %d", len(capped))
	}
}

func TestLookupArticuloPrefersPT(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)
	testutil.SeedArticulos(t, db, map[string]string{"2200000001": "MP DESC", "30000001": "SOLO MP"})
	testutil.SeedArticulosPT(t, db, map[string]string{"2200000001": "PT DESC"})

	a, err := svc.LookupArticulo("2200000001")
	if err != nil {
		t.Fatalf("LookupArticulo failed: %v", err)
	}
	if a.Descripcion != "PT DESC" {
		t.Fatalf("Expected PT description, got %q", a.Descripcion)
	}

	mp, err := svc.LookupArticulo("30000001")
	if err != nil || mp.Descripcion != "SOLO MP" {
		t.Fatalf("Expected MP fallback, got %v, %v", mp, err)
	}

	if _, err := svc.LookupArticulo("nope"); !errors.Is(err, ErrArticuloNotFound) {
		t.Fatalf("Expected ErrArticuloNotFound, got %v", err)
	}
}

func TestCatalogCacheReadThroughAndInvalidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewCatalogService(db, nil).WithCache(utils.NewRedisClient(client), time.Minute)
	testutil.SeedCatalogo(t, db, models.TipoFormica, "BLANCO")

	first, err := svc.SearchCatalog(models.TipoFormica, "")
	if err != nil || len(first) != 1 {
		t.Fatalf("Unexpected first result: %v, %v", first, err)
	}
	if !mr.Exists("integrador:catalogos:formica:") {
		t.Fatal("Expected result to be cached")
	}

	testutil.SeedCatalogo(t, db, models.TipoFormica, "NEGRO")
	cached, _ := svc.SearchCatalog(models.TipoFormica, "")
	if len(cached) != 1 {
		t.Fatalf("Expected cached result, got %v", cached)
	}

	svc.InvalidateCache()
	fresh, _ := svc.SearchCatalog(models.TipoFormica, "")
	if len(fresh) != 2 {
		t.Fatalf("Expected fresh result after invalidation, got %v", fresh)
	}
}

func TestCatalogCacheFailureFallsBackToDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	svc := NewCatalogService(db, nil).WithCache(utils.NewRedisClient(client), time.Minute)
	testutil.SeedCatalogo(t, db, models.TipoTela, "LINO")

	got, err := svc.SearchCatalog(models.TipoTela, "LI")
	if err != nil {
		t.Fatalf("Cache failure must not fail the search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected DB result, got %v", got)
	}
}

func TestCatalogCacheReadErrorsAreLogged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewCatalogService(db, zap.New(core)).WithCache(utils.NewRedisClient(client), time.Minute)
	testutil.SeedCatalogo(t, db, models.TipoTela, "LINO")

	if _, err := svc.SearchCatalog(models.TipoTela, "LI"); err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if n := logs.FilterMessage("No se pudo leer del cache").Len(); n != 0 {
		t.Fatalf("A cache miss must not be logged, got %d entries", n)
	}

	mr.Close()
	if _, err := svc.SearchCatalog(models.TipoTela, "LIN"); err != nil {
		t.Fatalf("Cache failure must not fail the search: %v", err)
	}
	if n := logs.FilterMessage("No se pudo leer del cache").Len(); n != 1 {
		t.Fatalf("Expected one read error entry, got %d", n)
	}
}
