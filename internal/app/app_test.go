package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/migrate"
	"github.com/danny270793/myorm/runtime/store"
)

func setup(t *testing.T) (*store.Handle, *migrate.Migrator) {
	t.Helper()
	ctx := context.Background()
	h, err := store.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	s, err := migrate.NewSchema(ctx, h)
	require.NoError(t, err)
	m, err := migrate.NewMigrator(s, Migrations()...)
	require.NoError(t, err)
	return h, m
}

func TestBundledMigrations(t *testing.T) {
	ctx := context.Background()
	_, m := setup(t)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "CreateUsersTable", applied[0].Name())
	assert.Equal(t, "CreateProductsTable", applied[1].Name())

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	h, m := setup(t)
	_, err := m.Up(ctx)
	require.NoError(t, err)

	login := time.Date(2024, 4, 17, 10, 0, 0, 0, time.UTC)
	u, err := Users.Create(ctx, h, map[string]interface{}{
		"name":      "Ada",
		"email":     "ada@example.com",
		"active":    true,
		"lastLogin": login,
	})
	require.NoError(t, err)

	found, err := Users.Find(ctx, h, u.ID.Get())
	require.NoError(t, err)
	assert.Equal(t, true, found.Active.Get())
	assert.Equal(t, login, found.LastLogin.Get())

	_, err = Users.Create(ctx, h, map[string]interface{}{"email": "ada@example.com", "active": false})
	assert.ErrorIs(t, err, errs.ErrUniqueConstraint)

	found.Active.Set(false)
	require.NoError(t, Users.Save(ctx, h, found))
	again, err := Users.Find(ctx, h, u.ID.Get())
	require.NoError(t, err)
	assert.Equal(t, false, again.Active.Get())

	require.NoError(t, Users.Delete(ctx, h, again))
	all, err := Users.FindAll(ctx, h)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductDefaults(t *testing.T) {
	ctx := context.Background()
	h, m := setup(t)
	// the default is stamped when the migration runs
	before := time.Now().Add(-time.Second)
	_, err := m.Up(ctx)
	require.NoError(t, err)

	p, err := Products.Create(ctx, h, map[string]interface{}{"name": "Mouse", "price": 29.99})
	require.NoError(t, err)

	found, err := Products.Find(ctx, h, p.ID.Get())
	require.NoError(t, err)
	assert.Equal(t, true, found.InStock.Get())
	assert.Equal(t, 29.99, found.Price.Get())

	createdAt, ok := found.CreatedAt.Get().(time.Time)
	require.True(t, ok, "createdAt should load as a time, got %T", found.CreatedAt.Get())
	assert.False(t, createdAt.Before(before.Truncate(time.Millisecond)))
}

func TestModels(t *testing.T) {
	models := Models()
	require.Len(t, models, 2)
	assert.Equal(t, "users", models[0].Table)
	assert.Equal(t, "products", models[1].Table)
	assert.Equal(t, "lastLogin", models[0].Fields[4].Name)
}
