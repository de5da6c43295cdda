package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func TestSQLiteDSN(t *testing.T) {
	got := SQLiteDSN("integrador.db")
	want := "integrador.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_cslike=true"
	if got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}

	got = SQLiteDSN("file:test?mode=memory&_foreign_keys=on")
	want = "file:test?mode=memory&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_cslike=true"
	if got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}
}

func TestConnectSQLiteMemory(t *testing.T) {
	db, err := Connect("sqlite", "file:conn_test?mode=memory&cache=shared", zap.NewNop())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	var fk int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("PRAGMA failed: %v", err)
	}
	if fk != 1 {
		t.Fatalf("Expected foreign keys on, got %d", fk)
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	if _, err := Connect("mysql", "x", zap.NewNop()); err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis("redis://"+mr.Addr()+"/0", nil, "", "", zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectRedis failed: %v", err)
	}
	defer CloseRedis(client)
}

func TestConnectRedisPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secreto")

	if _, err := ConnectRedis("redis://"+mr.Addr()+"/0", nil, "", "", zap.NewNop()); err == nil {
		t.Fatal("Expected auth error without password")
	}

	client, err := ConnectRedis("redis://"+mr.Addr()+"/0", nil, "", "secreto", zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectRedis with password failed: %v", err)
	}
	CloseRedis(client)

	// la contraseña de la URL tiene prioridad
	client, err = ConnectRedis("redis://:secreto@"+mr.Addr()+"/0", nil, "", "otra", zap.NewNop())
	if err != nil {
		t.Fatalf("ConnectRedis with URL password failed: %v", err)
	}
	CloseRedis(client)
}
