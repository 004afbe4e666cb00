package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(ups) == 0 {
		t.Fatalf("expected at least one up migration")
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(FS, down); err != nil {
			t.Fatalf("missing down migration for %s", up)
		}
	}
}

func TestIntentsTableColumns(t *testing.T) {
	raw, err := fs.ReadFile(FS, "000001_create_intents.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sql := string(raw)
	for _, col := range []string{
		"id", "session_id", "source", "destination", "flight_type", "flight_class",
		"departure_date", "return_date", "adults", "children", "infants", "airline",
		"turns", "record", "confirmed_at",
	} {
		if !strings.Contains(sql, col) {
			t.Fatalf("intents table is missing column %s", col)
		}
	}
}
