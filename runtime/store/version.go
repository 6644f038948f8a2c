package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/query/sqlgen"
)

var versionQueries = map[string]string{
	SQLite:   "SELECT sqlite_version() AS version",
	MySQL:    "SELECT VERSION() AS version",
	Postgres: "SELECT current_setting('server_version') AS version",
}

// EngineVersion asks the engine for its version.
func (h *Handle) EngineVersion(ctx context.Context) (*version.Version, error) {
	query, ok := versionQueries[h.dialect.Name]
	if !ok {
		return nil, fmt.Errorf("no version query for provider %s", h.dialect.Name)
	}

	row, found, err := h.QueryOne(ctx, sqlgen.PreparedStatement{SQL: query})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &errs.StoreError{Op: "version", SQL: query, Cause: fmt.Errorf("engine returned no version")}
	}

	raw := strings.TrimSpace(fmt.Sprint(row["version"]))
	if fields := strings.Fields(raw); len(fields) > 0 {
		raw = fields[0]
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid engine version %q: %w", raw, err)
	}
	return v, nil
}

// CheckEngineVersion fails unless the engine version satisfies constraint,
// for example ">= 3.8.3".
func (h *Handle) CheckEngineVersion(ctx context.Context, constraint string) (*version.Version, error) {
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := h.EngineVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return v, fmt.Errorf("%s %s does not satisfy %s", h.dialect.Name, v, constraint)
	}
	return v, nil
}
