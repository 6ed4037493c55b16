package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/database"
	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/repository"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

var addressRowColumns = []string{"id", "name", "address", "city", "state", "zip", "created_at"}

// setupAddressRepositoryTest creates a repository backed by a mock database
func setupAddressRepositoryTest(t *testing.T, dialect database.Dialect) (*repository.SQLAddressRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbPool := &database.Pool{DB: db, Dialect: dialect}

	repo := repository.NewAddressRepository(dbPool).(*repository.SQLAddressRepository)

	return repo, mock, func() {
		db.Close()
	}
}

func sampleInput() []models.FieldValue {
	input := models.AddressInput{Name: "Ann", Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"}
	return input.FieldValues()
}

func TestAddressRepository_List(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(addressRowColumns).
		AddRow(11, "Ann", "1 Main St", "Springfield", "IL", "62701", now).
		AddRow(12, "Bob", "2 Oak Ave", "Shelbyville", "IL", "62565", now)

	mock.ExpectQuery(`SELECT (.+) FROM addresses ORDER BY id LIMIT \? OFFSET \?`).
		WithArgs(10, 10).
		WillReturnRows(rows)

	addresses, err := repo.List(context.Background(), 10, 10)

	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, int64(11), addresses[0].ID)
	assert.Equal(t, "Bob", addresses[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_List_Empty(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WillReturnRows(sqlmock.NewRows(addressRowColumns))

	addresses, err := repo.List(context.Background(), 10, 0)

	require.NoError(t, err)
	assert.NotNil(t, addresses)
	assert.Empty(t, addresses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_List_DatabaseError(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WillReturnError(errors.New("connection reset"))

	addresses, err := repo.List(context.Background(), 10, 0)

	assert.Error(t, err)
	assert.Nil(t, addresses)
	assert.Contains(t, err.Error(), "failed to list addresses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_ListAll(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.Postgres)
	defer cleanup()

	rows := sqlmock.NewRows(addressRowColumns).
		AddRow(1, "Ann", "1 Main St", "Springfield", "IL", "62701", time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM addresses ORDER BY id$`).WillReturnRows(rows)

	addresses, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, addresses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Count(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM addresses`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Search(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	pattern := "%main%"
	mock.ExpectQuery(`SELECT id FROM addresses WHERE name LIKE \? ESCAPE '!' OR (.+) ORDER BY id`).
		WithArgs(pattern, pattern, pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(5))

	ids, err := repo.Search(context.Background(), "main")

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Search_NoMatches(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.Postgres)
	defer cleanup()

	mock.ExpectQuery(`SELECT id FROM addresses WHERE name ILIKE \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := repo.Search(context.Background(), "zzz")

	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(append(addressRowColumns, "record_no")).
		AddRow(9, "Ann", "1 Main St", "Springfield", "IL", "62701", now, 3)

	mock.ExpectQuery(`ROW_NUMBER\(\) OVER \(ORDER BY id\)(.+)WHERE id = \?`).
		WithArgs(int64(9)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
	assert.Equal(t, int64(3), got.RecordNo)
	assert.Equal(t, "Springfield", got.City)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_GetByID_NullCreatedAt(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	rows := sqlmock.NewRows(append(addressRowColumns, "record_no")).
		AddRow(4, "Ann", "1 Main St", "Springfield", "IL", "62701", nil, 1)

	mock.ExpectQuery("ROW_NUMBER").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.True(t, got.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectQuery("ROW_NUMBER").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(append(addressRowColumns, "record_no")))

	got, err := repo.GetByID(context.Background(), 404)

	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.Equal(t, constants.MsgRecordNotFound, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_MySQL(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO addresses \(name, address, city, state, zip, created_at\) VALUES \(\?, \?, \?, \?, \?, CURRENT_TIMESTAMP\)`).
		WithArgs("Ann", "1 Main St", "Springfield", "IL", "62701").
		WillReturnResult(sqlmock.NewResult(17, 1))

	id, err := repo.Create(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_Postgres(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.Postgres)
	defer cleanup()

	mock.ExpectQuery(`INSERT INTO addresses \(.*created_at\) VALUES (.+), CURRENT_TIMESTAMP\) RETURNING id`).
		WithArgs("Ann", "1 Main St", "Springfield", "IL", "62701").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(18))

	id, err := repo.Create(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, int64(18), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_ValueTooLong(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec("INSERT INTO addresses").
		WillReturnError(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'name'"})

	_, err := repo.Create(context.Background(), sampleInput())

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.ParseError(err).StatusCode)
	assert.True(t, utils.IsValidationError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_DatabaseError(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.Postgres)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO addresses").
		WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})

	_, err := repo.Create(context.Background(), sampleInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create address")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Replace(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec(`UPDATE addresses SET name = \?, address = \?, city = \?, state = \?, zip = \? WHERE id = \?`).
		WithArgs("Ann", "1 Main St", "Springfield", "IL", "62701", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Replace(context.Background(), 5, sampleInput())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Replace_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec("UPDATE addresses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), 5, sampleInput())

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.Equal(t, constants.MsgAddressNotFound, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Patch(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	updates := []models.FieldValue{
		{Field: models.FieldCity, Value: "Capital City"},
		{Field: models.FieldName, Value: "Ann B"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM addresses WHERE id = \? FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`UPDATE addresses SET city = \?, name = \? WHERE id = \?`).
		WithArgs("Capital City", "Ann B", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Patch(context.Background(), 5, updates)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Patch_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Patch(context.Background(), 99, []models.FieldValue{{Field: models.FieldZip, Value: "12345"}})

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.Equal(t, constants.MsgAddressNotFound, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Patch_UpdateFails(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.Postgres)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM addresses WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`UPDATE addresses SET zip = \$1 WHERE id = \$2`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.Patch(context.Background(), 5, []models.FieldValue{{Field: models.FieldZip, Value: "12345"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to patch address")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Patch_NoFields(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	err := repo.Patch(context.Background(), 5, nil)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM addresses WHERE id = \?`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Delete_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAddressRepositoryTest(t, database.MySQL)
	defer cleanup()

	mock.ExpectExec("DELETE FROM addresses").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
