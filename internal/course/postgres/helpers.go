// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// parseULID parses a stored ID column. Wraps parse errors with the column name.
func parseULID(s, column string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("COURSE_CORRUPT_ROW").
			With("operation", "parse "+column).
			With(column, s).
			Wrap(err)
	}
	return id, nil
}
