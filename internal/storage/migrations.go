package storage

import (
	"fmt"
	"strings"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Migration is one schema step, rendered per dialect.
type Migration struct {
	Statements  func(d dialect) []string
	Description string
	Version     int
}

// columnTypes maps every column to its SQLite and Postgres type.
var columnTypes = map[string][2]string{
	"user_id":         {"TEXT NOT NULL", "TEXT NOT NULL"},
	"telegram_id":     {"TEXT", "TEXT"},
	"whatsapp_number": {"TEXT", "TEXT"},
	"date":            {"DATETIME NOT NULL", "TIMESTAMPTZ NOT NULL"},
	"kind":            {"TEXT NOT NULL", "TEXT NOT NULL"},
	"action":          {"TEXT NOT NULL", "TEXT NOT NULL"},
	"amount":          {"NUMERIC NOT NULL", "NUMERIC(24, 8) NOT NULL"},
	"initial_amount":  {"NUMERIC NOT NULL", "NUMERIC(24, 8) NOT NULL"},
	"final_amount":    {"NUMERIC NOT NULL", "NUMERIC(24, 8) NOT NULL"},
	"price":           {"NUMERIC NOT NULL", "NUMERIC(24, 8) NOT NULL"},
	"currency":        {"TEXT NOT NULL", "TEXT NOT NULL"},
	"currency_from":   {"TEXT NOT NULL", "TEXT NOT NULL"},
	"currency_to":     {"TEXT NOT NULL", "TEXT NOT NULL"},
	"wallet_from":     {"TEXT", "TEXT"},
	"wallet_to":       {"TEXT", "TEXT"},
	"platform":        {"TEXT", "TEXT"},
	"category":        {"TEXT", "TEXT"},
	"description":     {"TEXT", "TEXT"},
}

func createTable(table string, d dialect) string {
	created := "DATETIME DEFAULT CURRENT_TIMESTAMP"
	if d == dialectPostgres {
		created = "TIMESTAMPTZ NOT NULL DEFAULT now()"
	}

	defs := []string{"id TEXT PRIMARY KEY"}
	for _, column := range append(append([]string{}, ownerColumns...), tableColumns[table]...) {
		defs = append(defs, column+" "+columnTypes[column][d])
	}
	defs = append(defs, "created_at "+created)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Financial action tables",
		Statements: func(d dialect) []string {
			var stmts []string
			for _, table := range Tables() {
				stmts = append(stmts, createTable(table, d))
			}
			return stmts
		},
	},
	{
		Version:     2,
		Description: "Index records by owner and date",
		Statements: func(dialect) []string {
			var stmts []string
			for _, table := range Tables() {
				stmts = append(stmts, fmt.Sprintf(
					"CREATE INDEX IF NOT EXISTS idx_%s_user_date ON %s(user_id, date)", table, table))
			}
			return stmts
		},
	},
}
