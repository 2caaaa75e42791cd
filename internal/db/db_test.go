package db

import (
	"testing"
)

func TestMemoryDSN(t *testing.T) {
	if got := MemoryDSN("roast calc"); got != "file:roast%20calc?mode=memory&cache=shared" {
		t.Fatalf("MemoryDSN = %q", got)
	}
}

func TestOpenMemoryEnablesForeignKeys(t *testing.T) {
	database, err := OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	defer database.Close()

	var enabled int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("query pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}

	if _, err := database.Exec(`CREATE TABLE t (v INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO t (v) VALUES (42)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var v int
	if err := database.QueryRow(`SELECT v FROM t`).Scan(&v); err != nil || v != 42 {
		t.Fatalf("select: v=%d err=%v", v, err)
	}
}
