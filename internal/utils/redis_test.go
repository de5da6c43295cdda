package utils

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisClient(client), mr
}

func TestSetGetJSON(t *testing.T) {
	rc, mr := newTestClient(t)

	if err := rc.Set("integrador:catalogos:pintura:", []string{"ROJO", "AZUL"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var got []string
	if err := rc.GetJSON("integrador:catalogos:pintura:", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(got) != 2 || got[0] != "ROJO" {
		t.Fatalf("Unexpected value: %v", got)
	}

	mr.FastForward(2 * time.Minute)
	if err := rc.GetJSON("integrador:catalogos:pintura:", &got); !rc.IsMiss(err) {
		t.Fatalf("Expected miss after TTL, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	rc, mr := newTestClient(t)

	for _, k := range []string{"integrador:catalogos:a", "integrador:catalogos:b", "integrador:articulos:c"} {
		if err := rc.Set(k, "x", 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := rc.DeletePattern("integrador:catalogos:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "integrador:articulos:c" {
		t.Fatalf("Expected only the articulos key, got %v", keys)
	}
}

func TestIsMissIgnoresConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	rc := NewRedisClient(client)

	var got []string
	if err := rc.GetJSON("integrador:articulos:x", &got); !rc.IsMiss(err) {
		t.Fatalf("Expected miss for absent key, got %v", err)
	}

	mr.Close()
	err := rc.GetJSON("integrador:articulos:x", &got)
	if err == nil {
		t.Fatal("Expected error with server down")
	}
	if rc.IsMiss(err) {
		t.Fatalf("Connection error must not be reported as a miss: %v", err)
	}
}
