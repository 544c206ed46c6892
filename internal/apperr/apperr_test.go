package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:    http.StatusUnauthorized,
		KindSessionExpired:     http.StatusUnauthorized,
		KindInvalidToken:       http.StatusUnauthorized,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindValidation:         http.StatusBadRequest,
		KindDuplicateEntry:     http.StatusBadRequest,
		KindInUse:              http.StatusBadRequest,
		KindNotFound:           http.StatusNotFound,
		KindInternal:           http.StatusInternalServerError,
		Kind("unknown"):        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), "kind %s", kind)
	}
}

func TestAsWrapsForeignErrorsAsInternal(t *testing.T) {
	err := As(errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "Something went wrong", err.Message)

	forbidden := Forbidden("nope")
	assert.Same(t, forbidden, As(fmt.Errorf("wrapped: %w", forbidden)))
	assert.Nil(t, As(nil))
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NotFound("missing"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindForbidden))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want Kind
	}{
		{name: "record not found", in: gorm.ErrRecordNotFound, want: KindNotFound},
		{name: "translated duplicate", in: gorm.ErrDuplicatedKey, want: KindDuplicateEntry},
		{name: "translated foreign key", in: gorm.ErrForeignKeyViolated, want: KindInUse},
		{name: "pg unique", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: KindDuplicateEntry},
		{name: "pg foreign key", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: KindInUse},
		{name: "pg not null", in: &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "title"}, want: KindValidation},
		{name: "pg other", in: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: KindInternal},
		{name: "sqlite unique", in: errors.New("UNIQUE constraint failed: users.username"), want: KindDuplicateEntry},
		{name: "sqlite foreign key", in: errors.New("FOREIGN KEY constraint failed"), want: KindInUse},
		{name: "unknown", in: errors.New("connection reset"), want: KindInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDB(fmt.Errorf("query: %w", tc.in))
			require.Error(t, got)
			assert.True(t, IsKind(got, tc.want), "got %v", got)
		})
	}

	assert.NoError(t, FromDB(nil))
	dup := FromDB(gorm.ErrDuplicatedKey)
	assert.Equal(t, "Duplicate entries are not allowed.", As(dup).Message)
}
