// Package db carries the SQL schema so tooling and tests can apply it
// without reaching into the filesystem.
package db

import _ "embed"

//go:embed schema.sql
var Schema string
