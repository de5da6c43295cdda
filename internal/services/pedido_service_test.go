package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yeiconcr1/integrador/internal/models"
	"github.com/yeiconcr1/integrador/internal/testutil"
)

func decodeInput(t *testing.T, body string) *models.PedidoInput {
	t.Helper()
	var in models.PedidoInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("Invalid test body: %v", err)
	}
	return &in
}

func TestCreatePedidoScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)

	in := decodeInput(t, `{"numero_pedido":"100","fecha":"2024-01-01","cliente":"ACME",
		"puestos":[{"nombre":"","items":[{"codigo":"123","cantidad_unitaria":"2","cantidad_tipologia":"3"}]}]}`)
	id, err := svc.CreatePedido(in)
	if err != nil {
		t.Fatalf("CreatePedido failed: %v", err)
	}

	p, err := svc.GetPedido(id)
	if err != nil {
		t.Fatalf("GetPedido failed: %v", err)
	}
	if len(p.Puestos) != 1 || p.Puestos[0].Nombre != "PUESTO 1" {
		t.Fatalf("Expected one station named PUESTO 1, got %+v", p.Puestos)
	}
	item := p.Puestos[0].Items[0]
	if item.CantidadTotal == nil || *item.CantidadTotal != 6 {
		t.Fatalf("Expected total 6, got %v", item.CantidadTotal)
	}
	if item.Descripcion != nil {
		t.Fatalf("Expected null description for unknown code, got %q", *item.Descripcion)
	}
	if p.Proyecto != nil {
		t.Fatal("Expected missing proyecto to be null")
	}
}

func TestCreatePedidoRoundTripOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)
	testutil.SeedArticulosPT(t, db, map[string]string{"2200000001": "ESCRITORIO EJECUTIVO"})

	in := decodeInput(t, `{"numero_pedido":"7","puestos":[
		{"nombre":" recepción ","items":[{"codigo":"A"},{"codigo":"B"},{"codigo":"C"}]},
		{"nombre":"gerencia","items":[{"codigo":"2200000001","cantidad_unitaria":0,"pintura":""}]},
		{"nombre":"vacío"}
	]}`)
	id, err := svc.CreatePedido(in)
	if err != nil {
		t.Fatalf("CreatePedido failed: %v", err)
	}

	p, err := svc.GetPedido(id)
	if err != nil {
		t.Fatalf("GetPedido failed: %v", err)
	}
	names := []string{"RECEPCIÓN", "GERENCIA", "VACÍO"}
	for i, want := range names {
		if p.Puestos[i].Nombre != want || p.Puestos[i].Orden != i {
			t.Fatalf("Station %d: expected %s/%d, got %s/%d", i, want, i, p.Puestos[i].Nombre, p.Puestos[i].Orden)
		}
	}
	for j, want := range []string{"A", "B", "C"} {
		it := p.Puestos[0].Items[j]
		if *it.Codigo != want || it.Orden != j {
			t.Fatalf("Item %d: expected %s, got %s", j, want, *it.Codigo)
		}
	}

	gerencia := p.Puestos[1].Items[0]
	if gerencia.Descripcion == nil || *gerencia.Descripcion != "ESCRITORIO EJECUTIVO" {
		t.Fatalf("Expected description from PT lookup, got %v", gerencia.Descripcion)
	}
	if gerencia.CantidadUnitaria != nil || gerencia.CantidadTotal != nil || gerencia.Pintura != nil {
		t.Fatal("Expected zero and empty values stored as null")
	}
	if p.Puestos[2].Items == nil || len(p.Puestos[2].Items) != 0 {
		t.Fatal("Expected empty non-nil items for station without items")
	}
}

func TestCreatePedidoExplicitDescriptionWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)
	testutil.SeedArticulos(t, db, map[string]string{"12345678": "DEL CATALOGO"})

	id, _ := svc.CreatePedido(decodeInput(t, `{"puestos":[{"items":[{"codigo":"12345678","descripcion":"  A MEDIDA  "}]}]}`))
	p, _ := svc.GetPedido(id)
	if got := *p.Puestos[0].Items[0].Descripcion; got != "A MEDIDA" {
		t.Fatalf("Expected trimmed explicit description, got %q", got)
	}
}

func TestUpdatePedidoReplacesTree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)

	id, err := svc.CreatePedido(decodeInput(t, `{"cliente":"ACME","puestos":[
		{"nombre":"uno","items":[{"codigo":"1"},{"codigo":"2"}]},
		{"nombre":"dos","items":[{"codigo":"3"}]}]}`))
	if err != nil {
		t.Fatalf("CreatePedido failed: %v", err)
	}
	before, _ := svc.GetPedido(id)

	time.Sleep(5 * time.Millisecond)
	err = svc.UpdatePedido(id, decodeInput(t, `{"cliente":"ACME SA","puestos":[{"nombre":"solo","items":[{"codigo":"9"}]}]}`))
	if err != nil {
		t.Fatalf("UpdatePedido failed: %v", err)
	}

	p, _ := svc.GetPedido(id)
	if *p.Cliente != "ACME SA" {
		t.Fatalf("Expected updated cliente, got %s", *p.Cliente)
	}
	if len(p.Puestos) != 1 || len(p.Puestos[0].Items) != 1 {
		t.Fatalf("Expected one station with one item, got %+v", p.Puestos)
	}
	if !p.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("Expected updated_at to advance: %v -> %v", before.UpdatedAt, p.UpdatedAt)
	}
	if n := testutil.CountRows(t, db, &models.PuestoTrabajo{}); n != 1 {
		t.Fatalf("Expected 1 station row, got %d", n)
	}
	if n := testutil.CountRows(t, db, &models.PuestoItem{}); n != 1 {
		t.Fatalf("Expected 1 item row, got %d", n)
	}
}

func TestUpdatePedidoNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)

	err := svc.UpdatePedido(999, decodeInput(t, `{"puestos":[{"items":[{"codigo":"1"}]}]}`))
	if !errors.Is(err, ErrPedidoNotFound) {
		t.Fatalf("Expected ErrPedidoNotFound, got %v", err)
	}
	if n := testutil.CountRows(t, db, &models.PuestoTrabajo{}); n != 0 {
		t.Fatalf("Expected no rows written, got %d", n)
	}
}

func TestDeletePedidoIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)

	id, _ := svc.CreatePedido(decodeInput(t, `{"puestos":[{"items":[{"codigo":"1"},{"codigo":"2"}]},{"items":[]}]}`))
	keep, _ := svc.CreatePedido(decodeInput(t, `{"puestos":[{"items":[{"codigo":"3"}]}]}`))

	for i := 0; i < 2; i++ {
		if err := svc.DeletePedido(id); err != nil {
			t.Fatalf("DeletePedido attempt %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.GetPedido(id); !errors.Is(err, ErrPedidoNotFound) {
		t.Fatalf("Expected deleted pedido to be gone, got %v", err)
	}

	var orphanPuestos, orphanItems int64
	db.Model(&models.PuestoTrabajo{}).Where("pedido_id = ?", id).Count(&orphanPuestos)
	db.Raw(`SELECT COUNT(*) FROM puesto_items pi JOIN puestos_trabajo pt ON pi.puesto_id = pt.id WHERE pt.pedido_id = ?`, id).Scan(&orphanItems)
	if orphanPuestos != 0 || orphanItems != 0 {
		t.Fatalf("Expected no rows left, got %d puestos and %d items", orphanPuestos, orphanItems)
	}
	if n := testutil.CountRows(t, db, &models.PuestoItem{}); n != 1 {
		t.Fatalf("Expected the other pedido untouched, got %d items", n)
	}
	if _, err := svc.GetPedido(keep); err != nil {
		t.Fatalf("Other pedido should remain: %v", err)
	}
}

func TestListPedidosCountsAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)

	first, _ := svc.CreatePedido(decodeInput(t, `{"numero_pedido":"1","puestos":[{"items":[{"codigo":"a"},{"codigo":"b"}]},{"items":[{"codigo":"c"}]}]}`))
	time.Sleep(5 * time.Millisecond)
	second, _ := svc.CreatePedido(decodeInput(t, `{"numero_pedido":"2"}`))

	list, err := svc.ListPedidos()
	if err != nil {
		t.Fatalf("ListPedidos failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != second {
		t.Fatalf("Expected newest first, got %+v", list)
	}
	if list[1].ID != first || list[1].TotalPuestos != 2 || list[1].TotalItems != 3 {
		t.Fatalf("Unexpected counts: %+v", list[1])
	}

	time.Sleep(5 * time.Millisecond)
	svc.UpdatePedido(first, decodeInput(t, `{"numero_pedido":"1"}`))
	list, _ = svc.ListPedidos()
	if list[0].ID != first || list[0].TotalPuestos != 0 {
		t.Fatalf("Expected updated pedido first with zero stations, got %+v", list[0])
	}
}

func TestListPedidosEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	list, err := NewPedidoService(db, nil).ListPedidos()
	if err != nil {
		t.Fatalf("ListPedidos failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("Expected empty non-nil list, got %#v", list)
	}
}

func TestReplaceAllPedidos(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPedidoService(db, nil)
	svc.CreatePedido(decodeInput(t, `{"numero_pedido":"viejo","puestos":[{"items":[{"codigo":"1"}]}]}`))

	tx := db.Begin()
	ids, err := svc.ReplaceAllPedidos(tx, []models.PedidoInput{
		*decodeInput(t, `{"numero_pedido":"10","puestos":[{"nombre":"PUESTO 1","items":[{"codigo":"x"}]}]}`),
		*decodeInput(t, `{"numero_pedido":"11"}`),
	})
	if err != nil {
		tx.Rollback()
		t.Fatalf("ReplaceAllPedidos failed: %v", err)
	}
	tx.Commit()

	if len(ids) != 2 {
		t.Fatalf("Expected 2 ids, got %v", ids)
	}
	list, _ := svc.ListPedidos()
	if len(list) != 2 {
		t.Fatalf("Expected only imported pedidos, got %d", len(list))
	}
	if n := testutil.CountRows(t, db, &models.PuestoItem{}); n != 1 {
		t.Fatalf("Expected 1 item, got %d", n)
	}
}

func TestNombrePuesto(t *testing.T) {
	if got := NombrePuesto("  cocina ", 0); got != "COCINA" {
		t.Fatalf("Expected COCINA, got %s", got)
	}
	if got := NombrePuesto("   ", 2); got != "PUESTO 3" {
		t.Fatalf("Expected PUESTO 3, got %s", got)
	}
}
