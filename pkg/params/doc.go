// Package params provides the sources of template parameters substituted into migrations.
//
// Sources compose with Chain, later sources winning:
//
//	src := params.Chain(
//		params.Static(cfg.Parameters.Values),
//		params.Env("SQLMIGRATE_PARAM_", os.Environ()),
//		params.Query(conn, "SELECT key, value FROM settings"),
//	)
//
//	values, err := src.Parameters(ctx, target)
package params
