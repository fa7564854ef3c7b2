// Package migrations contains the MongoDB index migrations.
// Each migration file uses init() to call migration.Register().
// This package is imported by cmd/vastra/main.go so every migration
// is registered at CLI startup.
package migrations
