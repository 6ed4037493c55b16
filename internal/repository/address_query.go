package repository

import (
	"fmt"
	"strings"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/database"
	"github.com/bytecodeman/addressesapi/internal/models"
)

// likeEscape is the escape character used in LIKE patterns.
// It is not a backslash so the same clause works under every SQL mode and dialect.
const likeEscape = "!"

// addressColumns is the column list selected for an address row.
var addressColumns = strings.Join([]string{
	constants.ColumnID,
	constants.ColumnName,
	constants.ColumnAddress,
	constants.ColumnCity,
	constants.ColumnState,
	constants.ColumnZip,
	constants.ColumnCreatedAt,
}, ", ")

// Statement is a parameterized SQL statement ready for execution.
// Caller-supplied values only ever appear in Args.
type Statement struct {
	Query string
	Args  []interface{}
}

// EscapeLike escapes the LIKE metacharacters in s so it matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return r.Replace(s)
}

// BuildSearchStatement matches keyword as a case-insensitive substring of any text field.
// Matching ids are returned in ascending order.
func BuildSearchStatement(d database.Dialect, keyword string) Statement {
	pattern := "%" + EscapeLike(keyword) + "%"

	conditions := make([]string, 0, len(models.AddressFields))
	args := make([]interface{}, 0, len(models.AddressFields))
	for _, f := range models.AddressFields {
		conditions = append(conditions, fmt.Sprintf("%s %s ? ESCAPE '%s'", f.Column(), d.CaseInsensitiveLike(), likeEscape))
		args = append(args, pattern)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		constants.ColumnID, constants.TableAddresses, strings.Join(conditions, " OR "), constants.ColumnID)

	return Statement{Query: d.Rebind(query), Args: args}
}

// BuildCountStatement counts every address.
func BuildCountStatement(d database.Dialect) Statement {
	return Statement{Query: fmt.Sprintf("SELECT COUNT(*) FROM %s", constants.TableAddresses)}
}

// BuildPageStatement selects one page of addresses ordered by id.
func BuildPageStatement(d database.Dialect, limit, offset int) Statement {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT ? OFFSET ?",
		addressColumns, constants.TableAddresses, constants.ColumnID)
	return Statement{Query: d.Rebind(query), Args: []interface{}{limit, offset}}
}

// BuildListAllStatement selects every address ordered by id.
func BuildListAllStatement(d database.Dialect) Statement {
	return Statement{Query: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		addressColumns, constants.TableAddresses, constants.ColumnID)}
}

// BuildGetStatement selects one address with its position in id order.
func BuildGetStatement(d database.Dialect, id int64) Statement {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM (SELECT %s, ROW_NUMBER() OVER (ORDER BY %s) AS %s FROM %s) ranked WHERE %s = ?",
		addressColumns, constants.ColumnRecordNo,
		addressColumns, constants.ColumnID, constants.ColumnRecordNo, constants.TableAddresses,
		constants.ColumnID,
	)
	return Statement{Query: d.Rebind(query), Args: []interface{}{id}}
}

// BuildInsertStatement inserts a new address stamped with the server's current time.
// Dialects with RETURNING report the new id in the result row.
func BuildInsertStatement(d database.Dialect, values []models.FieldValue) Statement {
	columns := make([]string, 0, len(values)+1)
	placeholders := make([]string, 0, len(values)+1)
	args := make([]interface{}, 0, len(values))
	for _, fv := range values {
		columns = append(columns, fv.Field.Column())
		placeholders = append(placeholders, "?")
		args = append(args, fv.Value)
	}
	// Set explicitly; adopted tables may not carry a column default.
	columns = append(columns, constants.ColumnCreatedAt)
	placeholders = append(placeholders, "CURRENT_TIMESTAMP")

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableAddresses, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if d.SupportsReturning() {
		query += " RETURNING " + constants.ColumnID
	}

	return Statement{Query: d.Rebind(query), Args: args}
}

// BuildUpdateStatement sets the given fields, in order, on the address with the given id.
// The id is bound last. It is used both for full replacement and partial updates.
func BuildUpdateStatement(d database.Dialect, id int64, updates []models.FieldValue) (Statement, error) {
	if len(updates) == 0 {
		return Statement{}, fmt.Errorf("update statement needs at least one field")
	}

	assignments := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	for _, fv := range updates {
		if !fv.Field.Valid() {
			return Statement{}, fmt.Errorf("unknown address field %d", int(fv.Field))
		}
		assignments = append(assignments, fv.Field.Column()+" = ?")
		args = append(args, fv.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		constants.TableAddresses, strings.Join(assignments, ", "), constants.ColumnID)

	return Statement{Query: d.Rebind(query), Args: args}, nil
}

// BuildLockStatement probes for an address and locks its row for the rest of the transaction.
func BuildLockStatement(d database.Dialect, id int64) Statement {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? FOR UPDATE",
		constants.ColumnID, constants.TableAddresses, constants.ColumnID)
	return Statement{Query: d.Rebind(query), Args: []interface{}{id}}
}

// BuildDeleteStatement removes the address with the given id.
func BuildDeleteStatement(d database.Dialect, id int64) Statement {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableAddresses, constants.ColumnID)
	return Statement{Query: d.Rebind(query), Args: []interface{}{id}}
}
