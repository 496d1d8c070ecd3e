// Package db embeds the SQL files shipped with the binary.
package db

import _ "embed"

// Schema holds the idempotent DDL for the cart pricing tables; it is applied
// on startup by the storage layer.
//
//go:embed migrations/001_schema.sql
var Schema string
