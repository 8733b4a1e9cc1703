// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package course

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/apperr"
)

// Service provides course and purchase operations.
type Service struct {
	courses   CourseRepository
	purchases PurchaseRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a Service using the default logger.
func NewService(courses CourseRepository, purchases PurchaseRepository) (*Service, error) {
	return NewServiceWithLogger(courses, purchases, slog.Default())
}

// NewServiceWithLogger creates a Service.
func NewServiceWithLogger(courses CourseRepository, purchases PurchaseRepository, logger *slog.Logger) (*Service, error) {
	if courses == nil {
		return nil, oops.Errorf("course repository is required")
	}
	if purchases == nil {
		return nil, oops.Errorf("purchase repository is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		courses:   courses,
		purchases: purchases,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create adds a course owned by creatorID.
func (s *Service) Create(ctx context.Context, creatorID ulid.ULID, d Draft) (*Course, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	c := &Course{
		ID:          ulid.Make(),
		Title:       d.Title,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Price:       d.Price,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "create course").
			With("creator_id", creatorID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "course created",
		"course_id", c.ID.String(),
		"creator_id", creatorID.String(),
	)
	return c, nil
}

// Update replaces the editable fields of a course. Only the creator may
// update a course; any other caller sees it as not found.
func (s *Service) Update(ctx context.Context, creatorID, courseID ulid.ULID, d Draft) (*Course, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c := &Course{
		ID:          courseID,
		Title:       d.Title,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Price:       d.Price,
		CreatorID:   creatorID,
		UpdatedAt:   s.now(),
	}
	if err := s.courses.Update(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.KindNotFound.Builder().
				With("course_id", courseID.String()).
				Errorf("course not found")
		}
		return nil, apperr.KindInternal.Builder().
			With("operation", "update course").
			With("course_id", courseID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "course updated",
		"course_id", courseID.String(),
		"creator_id", creatorID.String(),
	)
	return c, nil
}

// ListByCreator returns every course created by creatorID.
func (s *Service) ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*Course, error) {
	courses, err := s.courses.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "list courses by creator").
			With("creator_id", creatorID.String()).
			Wrap(err)
	}
	return courses, nil
}

// Purchase records that userID bought courseID.
func (s *Service) Purchase(ctx context.Context, userID, courseID ulid.ULID) (*Purchase, error) {
	p := &Purchase{
		ID:        ulid.Make(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: s.now(),
	}
	if err := s.purchases.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, apperr.KindNotFound.Builder().
				With("course_id", courseID.String()).
				Errorf("course not found")
		case errors.Is(err, ErrAlreadyPurchased):
			return nil, apperr.KindConflict.Builder().
				With("course_id", courseID.String()).
				Errorf("course already purchased")
		default:
			return nil, apperr.KindInternal.Builder().
				With("operation", "create purchase").
				With("course_id", courseID.String()).
				Wrap(err)
		}
	}

	s.logger.InfoContext(ctx, "course purchased",
		"purchase_id", p.ID.String(),
		"course_id", courseID.String(),
		"user_id", userID.String(),
	)
	return p, nil
}

// Purchases returns the purchases of userID together with the purchased courses.
func (s *Service) Purchases(ctx context.Context, userID ulid.ULID) (*Library, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "list purchases").
			With("user_id", userID.String()).
			Wrap(err)
	}

	lib := &Library{Purchases: purchases, Courses: []*Course{}}
	if len(purchases) == 0 {
		return lib, nil
	}

	ids := make([]ulid.ULID, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.CourseID)
	}
	courses, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "list purchased courses").
			With("user_id", userID.String()).
			Wrap(err)
	}
	lib.Courses = courses
	return lib, nil
}

// Preview returns the public catalogue.
func (s *Service) Preview(ctx context.Context) ([]*Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "list courses").
			Wrap(err)
	}
	return courses, nil
}
