// Package template substitutes named parameters into migration SQL.
//
// Placeholders are written {{name}}, where name is made of letters, digits, '-' and '_'. Every
// placeholder must be supplied with a non-empty value. Unused parameters are ignored:
//
//	sql, err := template.Apply("001_grants.sql", "GRANT SELECT ON {{table}} TO {{role}};", template.Parameters{
//		"table": "users",
//		"role":  "reader",
//		"owner": "unused",
//	})
//	// GRANT SELECT ON users TO reader;
//
// A placeholder left without a value fails with a *MissingParametersError naming all of them, and
// a file holding nothing but whitespace fails with an *EmptyMigrationError.
package template
