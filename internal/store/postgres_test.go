// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/coursegate/pkg/errutil"
)

// flakyPinger fails the first failures pings.
type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForDatabase(t *testing.T) {
	opts := ConnectOptions{Attempts: 3, Backoff: time.Millisecond}

	t.Run("succeeds immediately", func(t *testing.T) {
		p := &flakyPinger{}
		require.NoError(t, waitForDatabase(context.Background(), p, opts))
		assert.Equal(t, 1, p.calls)
	})

	t.Run("retries until the database answers", func(t *testing.T) {
		p := &flakyPinger{failures: 2}
		require.NoError(t, waitForDatabase(context.Background(), p, opts))
		assert.Equal(t, 3, p.calls)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		p := &flakyPinger{failures: 10}
		err := waitForDatabase(context.Background(), p, opts)
		require.Error(t, err)
		assert.Equal(t, 3, p.calls)
		errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
		errutil.AssertErrorContext(t, err, "attempts", 3)
	})

	t.Run("zero attempts still pings once", func(t *testing.T) {
		p := &flakyPinger{failures: 1}
		err := waitForDatabase(context.Background(), p, ConnectOptions{})
		require.Error(t, err)
		assert.Equal(t, 1, p.calls)
	})
}

func TestSQLStateHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.True(t, IsUniqueViolation(oops.Code("X").Wrap(unique)))
	assert.False(t, IsUniqueViolation(foreign))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(foreign))
	assert.False(t, IsForeignKeyViolation(unique))
}

func TestConstraintName(t *testing.T) {
	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "purchases_course_id_fkey"}

	assert.Equal(t, "purchases_course_id_fkey", ConstraintName(fk))
	assert.Equal(t, "purchases_course_id_fkey", ConstraintName(oops.Code("X").Wrap(fk)))
	assert.Empty(t, ConstraintName(errors.New("boom")))
	assert.Empty(t, ConstraintName(nil))
}
