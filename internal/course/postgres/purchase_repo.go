// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/course"
	"github.com/holomush/coursegate/internal/store"
)

// PurchaseRepository implements course.PurchaseRepository using PostgreSQL.
type PurchaseRepository struct {
	pool store.Querier
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(pool store.Querier) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// Foreign keys of the purchases table.
const (
	purchaseCourseFK = "purchases_course_id_fkey"
	purchaseUserFK   = "purchases_user_id_fkey"
)

// Create stores a purchase. The foreign key on course_id turns an unknown
// course into course.ErrNotFound; the (user_id, course_id) unique constraint
// turns a repeat purchase into course.ErrAlreadyPurchased. A buyer whose
// account no longer exists is an ordinary failure.
func (r *PurchaseRepository) Create(ctx context.Context, p *course.Purchase) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO purchases (id, user_id, course_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID.String(), p.UserID.String(), p.CourseID.String(), p.CreatedAt)
	switch {
	case err == nil:
		return nil
	case store.IsForeignKeyViolation(err) && store.ConstraintName(err) == purchaseCourseFK:
		return oops.Code("PURCHASE_COURSE_NOT_FOUND").
			With("course_id", p.CourseID.String()).
			Wrap(course.ErrNotFound)
	case store.IsForeignKeyViolation(err) && store.ConstraintName(err) == purchaseUserFK:
		return oops.Code("PURCHASE_BUYER_MISSING").
			With("user_id", p.UserID.String()).
			Wrap(err)
	case store.IsUniqueViolation(err):
		return oops.Code("PURCHASE_DUPLICATE").
			With("course_id", p.CourseID.String()).
			With("user_id", p.UserID.String()).
			Wrap(course.ErrAlreadyPurchased)
	default:
		return oops.Code("PURCHASE_CREATE_FAILED").
			With("operation", "insert purchase").
			With("course_id", p.CourseID.String()).
			Wrap(err)
	}
}

// ListByUser returns the purchases of userID, oldest first.
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*course.Purchase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, course_id, created_at
		FROM purchases WHERE user_id = $1 ORDER BY created_at, id
	`, userID.String())
	if err != nil {
		return nil, oops.Code("PURCHASE_LIST_FAILED").
			With("operation", "list purchases").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	purchases := make([]*course.Purchase, 0)
	for rows.Next() {
		var (
			p                        course.Purchase
			idStr, userStr, courseID string
		)
		if err := rows.Scan(&idStr, &userStr, &courseID, &p.CreatedAt); err != nil {
			return nil, oops.Code("PURCHASE_SCAN_FAILED").With("operation", "scan purchase").Wrap(err)
		}
		if p.ID, err = parseULID(idStr, "id"); err != nil {
			return nil, err
		}
		if p.UserID, err = parseULID(userStr, "user_id"); err != nil {
			return nil, err
		}
		if p.CourseID, err = parseULID(courseID, "course_id"); err != nil {
			return nil, err
		}
		purchases = append(purchases, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PURCHASE_SCAN_FAILED").With("operation", "iterate purchases").Wrap(err)
	}
	return purchases, nil
}

// Compile-time interface check.
var _ course.PurchaseRepository = (*PurchaseRepository)(nil)
