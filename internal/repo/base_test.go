package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
)

type widget struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repo_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseFirstMapsNotFound(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	if err := db.Create(&widget{ID: 1, Name: "bolt"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	var found widget
	if err := base.First(ctx, &found, "widget", "id = ?", 1); err != nil {
		t.Fatalf("first: %v", err)
	}
	if found.Name != "bolt" {
		t.Fatalf("unexpected row %+v", found)
	}

	err := base.First(ctx, &found, "widget", "id = ?", 2)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAffected(t *testing.T) {
	if err := Affected(&gorm.DB{RowsAffected: 1}, "update widget", "widget"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := Affected(&gorm.DB{}, "update widget", "widget"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	err := Affected(&gorm.DB{Error: errors.New("disk full")}, "update widget", "widget")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
