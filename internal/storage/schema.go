package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/plata/internal/common"
	"github.com/google/uuid"
)

// ownerColumns are present in every table.
var ownerColumns = []string{"user_id", "telegram_id", "whatsapp_number"}

// tableColumns whitelists the insertable columns of every table, besides
// the generated id and created_at.
var tableColumns = map[string][]string{
	"transactions": {"date", "kind", "amount", "currency", "category", "description"},
	"transfers":    {"date", "description", "category", "wallet_from", "wallet_to", "initial_amount", "final_amount", "currency"},
	"forex":        {"date", "description", "amount", "currency_from", "currency_to", "price"},
	"investments":  {"date", "action", "platform", "description", "category", "amount", "price", "currency"},
}

// Tables lists the known table names in a stable order.
func Tables() []string {
	names := make([]string, 0, len(tableColumns))
	for name := range tableColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func allowedColumn(table, column string) bool {
	for _, c := range ownerColumns {
		if c == column {
			return true
		}
	}
	for _, c := range tableColumns[table] {
		if c == column {
			return true
		}
	}
	return false
}

// buildInsert renders an INSERT for record with columns in sorted order and
// a generated id. placeholder renders the n-th (1-based) bind parameter.
func buildInsert(table string, record map[string]any, placeholder func(n int) string) (string, []any, error) {
	if _, ok := tableColumns[table]; !ok {
		return "", nil, fmt.Errorf("%w: %q", common.ErrUnknownTable, table)
	}
	if len(record) == 0 {
		return "", nil, ErrEmptyRecord
	}

	columns := make([]string, 0, len(record))
	for column := range record {
		if !allowedColumn(table, column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	columns = append([]string{"id"}, columns...)
	args := make([]any, 0, len(columns))
	args = append(args, uuid.NewString())
	for _, column := range columns[1:] {
		args = append(args, record[column])
	}

	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = placeholder(i + 1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "))
	return query, args, nil
}

func sqlitePlaceholder(int) string { return "?" }

func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }
