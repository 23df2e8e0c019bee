package params

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/template"
)

type (
	// Source supplies the template parameters for a run. It is consulted once per run.
	Source interface {
		Parameters(ctx context.Context, target migrator.Target) (template.Parameters, error)
	}

	// SourceFunc adapts a function to Source.
	SourceFunc func(ctx context.Context, target migrator.Target) (template.Parameters, error)

	queryRow struct {
		Key   string `db:"key" ch:"key"`
		Value string `db:"value" ch:"value"`
	}
)

func (f SourceFunc) Parameters(ctx context.Context, target migrator.Target) (template.Parameters, error) {
	return f(ctx, target)
}

// None supplies no parameters.
func None() Source {
	return Static(nil)
}

// Static always supplies a copy of values.
func Static(values map[string]string) Source {
	return SourceFunc(func(context.Context, migrator.Target) (template.Parameters, error) {
		return template.Parameters(values).Merge(nil), nil
	})
}

// Env supplies every variable in environ (KEY=value pairs, as returned by os.Environ) whose name
// starts with prefix. The prefix is stripped from the parameter name. An empty prefix supplies
// nothing rather than the whole environment.
//
// Example:
//
//	src := params.Env("SQLMIGRATE_PARAM_", []string{"SQLMIGRATE_PARAM_owner=admin", "HOME=/root"})
//	// {"owner": "admin"}
func Env(prefix string, environ []string) Source {
	values := make(template.Parameters)
	if prefix != "" {
		for _, kv := range environ {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(key, prefix) || key == prefix {
				continue
			}

			values[strings.TrimPrefix(key, prefix)] = value
		}
	}

	return Static(values)
}

// Query supplies parameters read from the database. The query must return two text columns named
// key and value. Rows later in the result override earlier ones.
//
// Example:
//
//	src := params.Query(conn, "SELECT name AS key, setting AS value FROM pg_settings")
func Query(db database.DB, query string) Source {
	return SourceFunc(func(ctx context.Context, _ migrator.Target) (template.Parameters, error) {
		var rows []queryRow
		if err := db.Select(ctx, &rows, query); err != nil {
			return nil, errors.Wrap(err, "failed to query template parameters")
		}

		values := make(template.Parameters, len(rows))
		for _, r := range rows {
			values[r.Key] = r.Value
		}

		return values, nil
	})
}

// Chain merges the parameters of every source, in order. Later sources override earlier ones and
// the first error stops the chain.
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, target migrator.Target) (template.Parameters, error) {
		merged := make(template.Parameters)
		for _, src := range sources {
			if src == nil {
				continue
			}

			values, err := src.Parameters(ctx, target)
			if err != nil {
				return nil, err
			}

			merged = merged.Merge(values)
		}

		return merged, nil
	})
}
