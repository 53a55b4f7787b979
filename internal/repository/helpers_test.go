package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleNotFound(t *testing.T) {
	t.Run("no rows is a nil result", func(t *testing.T) {
		v := 1
		got, err := HandleNotFound(&v, sql.ErrNoRows)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("passes other errors through", func(t *testing.T) {
		v := 1
		boom := errors.New("boom")
		got, err := HandleNotFound(&v, boom)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})

	t.Run("returns result", func(t *testing.T) {
		v := 7
		got, err := HandleNotFound(&v, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, *got)
	})
}

func TestMapWriteError(t *testing.T) {
	t.Run("unique violation becomes ErrDuplicate", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
		assert.ErrorIs(t, mapWriteError(err), ErrDuplicate)
	})

	t.Run("missing or malformed account reference becomes ErrUnknownAccount", func(t *testing.T) {
		assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "23503"}), ErrUnknownAccount)
		assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "22P02"}), ErrUnknownAccount)
	})

	t.Run("other pq errors pass through", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23514"}
		assert.Equal(t, error(pqErr), mapWriteError(pqErr))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, mapWriteError(nil))
	})
}
