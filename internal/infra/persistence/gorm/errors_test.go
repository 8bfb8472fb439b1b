package gormpersistence

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"catalog-admin/internal/repository"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, repository.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, repository.ErrDuplicateEntry},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, repository.ErrForeignKeyViolation},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, repository.ErrDuplicateEntry},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, repository.ErrForeignKeyViolation},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, repository.ErrDuplicateEntry},
		{"mysql missing parent", &mysql.MySQLError{Number: 1452}, repository.ErrForeignKeyViolation},
		{"sqlite unique", errors.New("UNIQUE constraint failed: User.email"), repository.ErrDuplicateEntry},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), repository.ErrForeignKeyViolation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tc.err, "op"), tc.want)
		})
	}
}

func TestTranslateError_KeepsUnknownCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := translateError(cause, "list posts")

	assert.ErrorIs(t, err, cause)
	assert.False(t, repository.IsConstraintViolation(err))
	assert.Contains(t, err.Error(), "list posts")
	assert.Nil(t, translateError(nil, "op"))
}
