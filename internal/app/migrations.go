// Package app holds the migrations and models shipped with the myorm tool.
package app

import (
	"context"
	"time"

	"github.com/danny270793/myorm/migrate"
	"github.com/danny270793/myorm/migrate/sqlgen"
	"github.com/danny270793/myorm/runtime/types"
)

// CreateUsersTable creates the users table.
type CreateUsersTable struct{}

func (CreateUsersTable) Number() int  { return 1 }
func (CreateUsersTable) Name() string { return "CreateUsersTable" }

func (CreateUsersTable) Up(ctx context.Context, s *migrate.Schema) error {
	return s.CreateTable(ctx, "users", func(t *sqlgen.TableBuilder) {
		t.Column("id", types.Number).PrimaryKey().AutoIncrement()
		t.Column("name", types.String).Nullable()
		t.Column("email", types.String).Unique()
		t.Column("active", types.Boolean).NotNull()
		t.Column("lastLogin", types.Date).Default(time.Now())
	})
}

func (CreateUsersTable) Down(ctx context.Context, s *migrate.Schema) error {
	return s.DropTable(ctx, "users")
}

// CreateProductsTable creates the products table.
type CreateProductsTable struct{}

func (CreateProductsTable) Number() int  { return 2 }
func (CreateProductsTable) Name() string { return "CreateProductsTable" }

func (CreateProductsTable) Up(ctx context.Context, s *migrate.Schema) error {
	return s.CreateTable(ctx, "products", func(t *sqlgen.TableBuilder) {
		t.Column("id", types.Number).PrimaryKey().AutoIncrement()
		t.Column("name", types.String).NotNull()
		t.Column("description", types.String)
		t.Column("price", types.Number).NotNull()
		t.Column("inStock", types.Boolean).Default(true)
		t.Column("createdAt", types.Date).Default(time.Now())
	})
}

func (CreateProductsTable) Down(ctx context.Context, s *migrate.Schema) error {
	return s.DropTable(ctx, "products")
}

// Migrations returns every bundled migration.
func Migrations() []migrate.Migration {
	return []migrate.Migration{
		CreateUsersTable{},
		CreateProductsTable{},
	}
}
