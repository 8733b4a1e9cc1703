// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/coursegate/internal/apperr"
)

// Field limits for course drafts.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000
	MaxImageURLLength    = 2048
)

// Repository errors.
var (
	ErrNotFound         = errors.New("course not found")
	ErrAlreadyPurchased = errors.New("course already purchased")
)

// Course is an item in the catalogue, owned by the admin that created it.
type Course struct {
	ID          ulid.ULID
	Title       string
	Description string
	ImageURL    string
	// Price is in minor currency units.
	Price     int64
	CreatorID ulid.ULID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft holds the editable fields of a course.
type Draft struct {
	Title       string
	Description string
	ImageURL    string
	Price       int64
}

// Validate checks the draft fields.
func (d Draft) Validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return apperr.KindValidation.Builder().With("field", "title").Errorf("title is required")
	}
	if len(d.Title) > MaxTitleLength {
		return apperr.KindValidation.Builder().With("field", "title").
			Errorf("title exceeds maximum length of %d", MaxTitleLength)
	}
	if len(d.Description) > MaxDescriptionLength {
		return apperr.KindValidation.Builder().With("field", "description").
			Errorf("description exceeds maximum length of %d", MaxDescriptionLength)
	}
	if len(d.ImageURL) > MaxImageURLLength {
		return apperr.KindValidation.Builder().With("field", "imageUrl").
			Errorf("image URL exceeds maximum length of %d", MaxImageURLLength)
	}
	if d.Price < 0 {
		return apperr.KindValidation.Builder().With("field", "price").Errorf("price must not be negative")
	}
	return nil
}

// Purchase records that a user bought a course.
type Purchase struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	CourseID  ulid.ULID
	CreatedAt time.Time
}

// Library is the set of courses a user owns.
type Library struct {
	Purchases []*Purchase
	Courses   []*Course
}

// CourseRepository persists courses.
type CourseRepository interface {
	// Create stores a new course.
	Create(ctx context.Context, c *Course) error
	// Update overwrites the editable fields of the course matching both
	// c.ID and c.CreatorID and fills c.CreatedAt. Returns ErrNotFound if no
	// such course exists.
	Update(ctx context.Context, c *Course) error
	// ListByCreator returns the courses created by creatorID, newest first.
	ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*Course, error)
	// ListByIDs returns the courses with the given IDs. Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*Course, error)
	// List returns the whole catalogue, newest first.
	List(ctx context.Context) ([]*Course, error)
}

// PurchaseRepository persists purchases.
type PurchaseRepository interface {
	// Create stores a purchase. Returns ErrNotFound if the course does not
	// exist and ErrAlreadyPurchased if the user already owns it.
	Create(ctx context.Context, p *Purchase) error
	// ListByUser returns the purchases of userID, oldest first.
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Purchase, error)
}
