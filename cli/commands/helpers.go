package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/danny270793/myorm/internal/app"
	"github.com/danny270793/myorm/migrate"
	"github.com/danny270793/myorm/runtime/store"
)

// openStore opens the configured database.
func openStore(ctx context.Context) (*store.Handle, error) {
	h, err := store.Open(ctx, store.Config{
		Provider: settings.Provider,
		DSN:      settings.Database,
		Debug:    settings.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database %s: %w", settings.Provider, settings.Database, err)
	}
	return h, nil
}

// newMigrator returns a migrator over the bundled migrations.
func newMigrator(ctx context.Context, exec store.Executor) (*migrate.Migrator, error) {
	schema, err := migrate.NewSchema(ctx, exec)
	if err != nil {
		return nil, err
	}
	return migrate.NewMigrator(schema, app.Migrations()...)
}

// parseOrder splits "field [asc|desc]" into its parts.
func parseOrder(order string) (field, direction string, err error) {
	parts := strings.Fields(order)
	switch len(parts) {
	case 0:
		return "", "", nil
	case 1:
		return parts[0], "asc", nil
	case 2:
		dir := strings.ToLower(parts[1])
		if dir != "asc" && dir != "desc" {
			return "", "", fmt.Errorf("invalid order direction %q", parts[1])
		}
		return parts[0], dir, nil
	default:
		return "", "", fmt.Errorf("invalid order %q, want \"field [asc|desc]\"", order)
	}
}

func rowMaps(rows []store.Row) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out
}
