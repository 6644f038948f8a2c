package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Provider names.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Dialect describes how statements reach a given engine.
type Dialect struct {
	// Name is the normalized provider name.
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// Numbered reports whether placeholders are $1, $2, … instead of ?.
	Numbered bool
}

// DialectFor maps a provider name to its dialect. An empty provider means SQLite.
func DialectFor(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "", "sqlite", "sqlite3":
		return Dialect{Name: SQLite, Driver: "sqlite3"}, nil
	case "mysql":
		return Dialect{Name: MySQL, Driver: "mysql"}, nil
	case "postgres", "postgresql":
		return Dialect{Name: Postgres, Driver: "postgres", Numbered: true}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Rebind rewrites ? placeholders for dialects with numbered placeholders.
// Question marks inside quoted literals and identifiers are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered || !strings.Contains(query, "?") {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// DialectOf returns the dialect of exec when it exposes one, SQLite otherwise.
func DialectOf(exec Executor) Dialect {
	if d, ok := exec.(interface{ Dialect() Dialect }); ok {
		return d.Dialect()
	}
	return Dialect{Name: SQLite, Driver: "sqlite3"}
}
