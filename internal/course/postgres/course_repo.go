// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements course repositories on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/course"
	"github.com/holomush/coursegate/internal/store"
)

const courseColumns = `id, title, description, image_url, price, creator_id, created_at, updated_at`

// CourseRepository implements course.CourseRepository using PostgreSQL.
type CourseRepository struct {
	pool store.Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool store.Querier) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create stores a new course.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO courses (id, title, description, image_url, price, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID.String(), c.Title, c.Description, c.ImageURL, c.Price, c.CreatorID.String(), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return oops.Code("COURSE_CREATE_FAILED").
			With("operation", "insert course").
			With("id", c.ID.String()).
			Wrap(err)
	}
	return nil
}

// Update overwrites the editable fields of the course owned by c.CreatorID.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET title = $3, description = $4, image_url = $5, price = $6, updated_at = $7
		WHERE id = $1 AND creator_id = $2
		RETURNING created_at
	`, c.ID.String(), c.CreatorID.String(), c.Title, c.Description, c.ImageURL, c.Price, c.UpdatedAt).Scan(&c.CreatedAt)
	if isNoRows(err) {
		return oops.Code("COURSE_NOT_FOUND").With("id", c.ID.String()).Wrap(course.ErrNotFound)
	}
	if err != nil {
		return oops.Code("COURSE_UPDATE_FAILED").
			With("operation", "update course").
			With("id", c.ID.String()).
			Wrap(err)
	}
	return nil
}

// ListByCreator returns the courses created by creatorID, newest first.
func (r *CourseRepository) ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*course.Course, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses WHERE creator_id = $1 ORDER BY created_at DESC, id DESC
	`, creatorID.String())
	if err != nil {
		return nil, oops.Code("COURSE_LIST_FAILED").
			With("operation", "list courses by creator").
			With("creator_id", creatorID.String()).
			Wrap(err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// ListByIDs returns the courses with the given IDs.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*course.Course, error) {
	if len(ids) == 0 {
		return []*course.Course{}, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses WHERE id = ANY($1) ORDER BY created_at DESC, id DESC
	`, strs)
	if err != nil {
		return nil, oops.Code("COURSE_LIST_FAILED").
			With("operation", "list courses by ids").
			With("count", len(ids)).
			Wrap(err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// List returns the whole catalogue, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]*course.Course, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+courseColumns+`
		FROM courses ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, oops.Code("COURSE_LIST_FAILED").With("operation", "list courses").Wrap(err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func scanCourses(rows pgx.Rows) ([]*course.Course, error) {
	courses := make([]*course.Course, 0)
	for rows.Next() {
		var (
			c                course.Course
			idStr, creatorID string
		)
		if err := rows.Scan(
			&idStr, &c.Title, &c.Description, &c.ImageURL, &c.Price, &creatorID, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, oops.Code("COURSE_SCAN_FAILED").With("operation", "scan course").Wrap(err)
		}

		var err error
		if c.ID, err = parseULID(idStr, "id"); err != nil {
			return nil, err
		}
		if c.CreatorID, err = parseULID(creatorID, "creator_id"); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("COURSE_SCAN_FAILED").With("operation", "iterate courses").Wrap(err)
	}
	return courses, nil
}

// Compile-time interface check.
var _ course.CourseRepository = (*CourseRepository)(nil)
