package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-app/internal/model"
)

var userCols = []string{"id", "email", "username", "first_name", "last_name", "hashed_password", "is_active", "role", "phone_number"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice@example.com", "alice", "Alice", "Liddell", "$2a$hash", true, "user", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	u := &model.User{Email: " alice@example.com ", Username: "alice", FirstName: "Alice", LastName: "Liddell",
		HashedPassword: "$2a$hash", IsActive: true, Role: "user"}
	id, err := NewUserRepo(db).Create(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, uint64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	_, err = NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice@example.com", "alice", "Alice", "Liddell", "$2a$hash", true, "user", "555-0100"))

	u, err := NewUserRepo(db).GetByUsername(context.Background(), " alice ")

	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, "user", u.Role)
	assert.Equal(t, sql.NullString{String: "555-0100", Valid: true}, u.PhoneNumber)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = NewUserRepo(db).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET hashed_password = ? WHERE id = ?")).
		WithArgs("$2a$new", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET phone_number = ? WHERE id = ?")).
		WithArgs("555", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepo(db)
	assert.NoError(t, repo.UpdatePassword(context.Background(), 1, "$2a$new"))
	assert.ErrorIs(t, repo.UpdatePhoneNumber(context.Background(), 9, "555"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
