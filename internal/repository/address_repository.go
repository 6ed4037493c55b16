package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/database"
	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// AddressRepository defines methods for interacting with address data
type AddressRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Address, error)
	ListAll(ctx context.Context) ([]models.Address, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, keyword string) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*models.AddressWithPosition, error)
	Create(ctx context.Context, values []models.FieldValue) (int64, error)
	Replace(ctx context.Context, id int64, values []models.FieldValue) error
	Patch(ctx context.Context, id int64, updates []models.FieldValue) error
	Delete(ctx context.Context, id int64) error
}

// SQLAddressRepository implements AddressRepository for MySQL and PostgreSQL.
type SQLAddressRepository struct {
	db *database.Pool
}

// NewAddressRepository creates a new AddressRepository
func NewAddressRepository(db *database.Pool) AddressRepository {
	return &SQLAddressRepository{
		db: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAddress(s rowScanner, extra ...interface{}) (models.Address, error) {
	var a models.Address
	var createdAt sql.NullTime
	dest := []interface{}{&a.ID, &a.Name, &a.Address, &a.City, &a.State, &a.Zip, &createdAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return a, err
	}
	// Rows inserted before created_at was stamped read back with the zero time.
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	return a, nil
}

// queryAddresses runs stmt and scans every resulting address.
func (r *SQLAddressRepository) queryAddresses(ctx context.Context, stmt Statement) ([]models.Address, error) {
	startTime := time.Now()

	rows, err := r.db.QueryContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)
		return nil, err
	}
	defer rows.Close()

	addresses := make([]models.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)
			return nil, err
		}
		addresses = append(addresses, a)
	}
	err = rows.Err()

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// List retrieves one page of addresses ordered by id
func (r *SQLAddressRepository) List(ctx context.Context, limit, offset int) ([]models.Address, error) {
	addresses, err := r.queryAddresses(ctx, BuildPageStatement(r.db.Dialect, limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// ListAll retrieves every address ordered by id
func (r *SQLAddressRepository) ListAll(ctx context.Context) ([]models.Address, error) {
	addresses, err := r.queryAddresses(ctx, BuildListAllStatement(r.db.Dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Count returns the total number of addresses
func (r *SQLAddressRepository) Count(ctx context.Context) (int64, error) {
	startTime := time.Now()
	stmt := BuildCountStatement(r.db.Dialect)

	var count int64
	err := r.db.QueryRowContext(ctx, stmt.Query, stmt.Args...).Scan(&count)

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}

// Search returns the ids of addresses with keyword in any text field
func (r *SQLAddressRepository) Search(ctx context.Context, keyword string) ([]int64, error) {
	startTime := time.Now()
	stmt := BuildSearchStatement(r.db.Dialect, keyword)

	rows, err := r.db.QueryContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)
		return nil, fmt.Errorf("failed to search addresses: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to search addresses: %w", err)
	}
	return ids, nil
}

// GetByID retrieves an address together with its position in id order
func (r *SQLAddressRepository) GetByID(ctx context.Context, id int64) (*models.AddressWithPosition, error) {
	startTime := time.Now()
	stmt := BuildGetStatement(r.db.Dialect, id)

	result := &models.AddressWithPosition{}
	a, err := scanAddress(r.db.QueryRowContext(ctx, stmt.Query, stmt.Args...), &result.RecordNo)

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError(constants.MsgRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	result.Address = a
	return result, nil
}

// Create inserts a new address and returns its id
func (r *SQLAddressRepository) Create(ctx context.Context, values []models.FieldValue) (int64, error) {
	startTime := time.Now()
	stmt := BuildInsertStatement(r.db.Dialect, values)

	var id int64
	var err error
	if r.db.Dialect.SupportsReturning() {
		err = r.db.QueryRowContext(ctx, stmt.Query, stmt.Args...).Scan(&id)
	} else {
		var result sql.Result
		result, err = r.db.ExecContext(ctx, stmt.Query, stmt.Args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	}

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	if err != nil {
		if appErr := constraintError(err); appErr != nil {
			return 0, appErr
		}
		return 0, fmt.Errorf("failed to create address: %w", err)
	}

	log.Info().Int64("address_id", id).Msg("Address created")

	return id, nil
}

// Replace overwrites every field of an existing address
func (r *SQLAddressRepository) Replace(ctx context.Context, id int64, values []models.FieldValue) error {
	stmt, err := BuildUpdateStatement(r.db.Dialect, id, values)
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	affected, err := r.execAffected(ctx, r.db, stmt)
	if err != nil {
		if appErr := constraintError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("failed to update address: %w", err)
	}
	if affected == 0 {
		return utils.NewNotFoundError(constants.MsgAddressNotFound)
	}

	log.Info().Int64("address_id", id).Msg("Address replaced")

	return nil
}

// Patch updates the given fields of an existing address.
// The row is locked by an existence probe so a missing address is reported
// as not found rather than as an update that changed nothing.
func (r *SQLAddressRepository) Patch(ctx context.Context, id int64, updates []models.FieldValue) error {
	stmt, err := BuildUpdateStatement(r.db.Dialect, id, updates)
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	err = r.db.Transaction(ctx, func(tx *sql.Tx) error {
		probe := BuildLockStatement(r.db.Dialect, id)
		startTime := time.Now()

		var found int64
		err := tx.QueryRowContext(ctx, probe.Query, probe.Args...).Scan(&found)

		utils.LogDBQuery(probe.Query, probe.Args, time.Since(startTime), err)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.NewNotFoundError(constants.MsgAddressNotFound)
			}
			return err
		}

		_, err = r.execAffected(ctx, tx, stmt)
		return err
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		if appErr := constraintError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("failed to patch address: %w", err)
	}

	log.Info().Int64("address_id", id).Int("fields", len(updates)).Msg("Address patched")

	return nil
}

// Delete removes an address
func (r *SQLAddressRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.execAffected(ctx, r.db, BuildDeleteStatement(r.db.Dialect, id))
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if affected == 0 {
		return utils.NewNotFoundError(constants.MsgAddressNotFound)
	}

	log.Info().Int64("address_id", id).Msg("Address deleted")

	return nil
}

// execAffected runs stmt on q and returns the number of rows it matched.
func (r *SQLAddressRepository) execAffected(ctx context.Context, q database.Querier, stmt Statement) (int64, error) {
	startTime := time.Now()

	result, err := q.ExecContext(ctx, stmt.Query, stmt.Args...)
	var affected int64
	if err == nil {
		affected, err = result.RowsAffected()
	}

	utils.LogDBQuery(stmt.Query, stmt.Args, time.Since(startTime), err)

	return affected, err
}

// constraintError converts driver errors caused by the submitted values into client errors.
func constraintError(err error) *utils.AppError {
	appErr := utils.ParseError(err)
	if appErr.StatusCode == http.StatusBadRequest {
		return appErr
	}
	return nil
}
