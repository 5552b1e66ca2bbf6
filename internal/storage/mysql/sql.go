package mysql

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// fieldColumns follows domain.Record.Fields order.
var fieldColumns = []string{
	"municipality", "province", "tourism_board", "stars", "qualification",
	"type", "name", "street", "street_number", "postal_code",
	"phone", "fax", "email", "municipality_alt", "establishment_alt",
	"mark_ecolabel", "mark_q", "mark_yes", "accessible", "pets_allowed",
	"pay_cheque", "pay_debit_card", "pay_credit_card", "garage", "elevator",
	"reserved_parking", "aircon_rooms", "aircon_apartments",
}

// per-row params: row_num, the fields, municipality_key, type_key
var paramsPerRow = len(fieldColumns) + 3

var (
	insertRecordsPrefix = "INSERT INTO lodging_records\n  (row_num, " +
		strings.Join(fieldColumns, ", ") + ", municipality_key, type_key)\nVALUES "

	rowPlaceholders = "(" + strings.TrimSuffix(strings.Repeat("?,", paramsPerRow), ",") + ")"

	insertRecordsOnDup = " ON DUPLICATE KEY UPDATE\n" + onDupAssignments()

	getRecordSQL = "SELECT " + strings.Join(fieldColumns, ", ") +
		"\nFROM lodging_records\nWHERE row_num = ?"
)

const countRecordsSQL = `SELECT COUNT(*) FROM lodging_records`

func onDupAssignments() string {
	cols := append(append([]string{}, fieldColumns...), "municipality_key", "type_key")
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = "  " + c + " = VALUES(" + c + ")"
	}
	return strings.Join(set, ",\n")
}
