package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigratorSortsAndRejectsDuplicates(t *testing.T) {
	s, _ := newSchema(t)

	m, err := NewMigrator(s,
		tableMigration{number: 3, table: "c"},
		tableMigration{number: 1, table: "a"},
		tableMigration{number: 2, table: "b"},
	)
	require.NoError(t, err)

	var numbers []int
	for _, mig := range m.Sorted() {
		numbers = append(numbers, mig.Number())
	}
	assert.Equal(t, []int{1, 2, 3}, numbers)

	_, err = NewMigrator(s, tableMigration{number: 1, table: "a"}, tableMigration{number: 1, table: "b"})
	assert.Error(t, err)
}

func TestMigratorUp(t *testing.T) {
	ctx := context.Background()
	s, h := newSchema(t)

	m, err := NewMigrator(s,
		tableMigration{number: 2, table: "articles"},
		tableMigration{number: 1, table: "users"},
	)
	require.NoError(t, err)

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, 1, applied[0].Number())
	assert.True(t, tableExists(t, h, "users"))
	assert.True(t, tableExists(t, h, "articles"))

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, trackingRows(t, s), 2)

	pending, err = m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigratorUpStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	s, h := newSchema(t)
	boom := errors.New("boom")

	m, err := NewMigrator(s,
		tableMigration{number: 1, table: "users"},
		funcMigration{number: 2, up: func(context.Context, *Schema) error { return boom }},
		tableMigration{number: 3, table: "articles"},
	)
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	assert.ErrorIs(t, err, boom)
	require.Len(t, applied, 1)
	assert.False(t, tableExists(t, h, "articles"))
}

func TestMigratorStatusAndDown(t *testing.T) {
	ctx := context.Background()
	s, h := newSchema(t)

	m, err := NewMigrator(s,
		tableMigration{number: 1, table: "users"},
		tableMigration{number: 2, table: "articles"},
	)
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, s, m.Sorted()[0]))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Applied)
	assert.False(t, status[0].AppliedAt.IsZero())
	assert.False(t, status[1].Applied)
	assert.True(t, status[1].AppliedAt.IsZero())

	reverted, err := m.Down(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted.Number())
	assert.False(t, tableExists(t, h, "users"))

	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status[0].Applied)

	_, err = m.Down(ctx, 42)
	assert.Error(t, err)
}
