package database

import (
	"context"
	"testing"

	"github.com/infutrix/backoffice-api/internal/domain"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(Options{Driver: "sqlite", DSN: "file::memory:?_foreign_keys=on"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Ping(ctx, db); err != nil {
		t.Fatalf("ping: %v", err)
	}
	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("expected table for %T", m)
		}
	}
	if !db.Migrator().HasColumn(&domain.Blog{}, "deleted_at") {
		t.Fatal("expected soft delete column on blogs")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
