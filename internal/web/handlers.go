// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/course"
)

// Registrar registers accounts.
type Registrar interface {
	Signup(ctx context.Context, req auth.SignupRequest) (ulid.ULID, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Signin(ctx context.Context, role auth.Role, email, password string) (*auth.Token, error)
}

// Catalog is the course service as seen by the routes.
type Catalog interface {
	Create(ctx context.Context, creatorID ulid.ULID, d course.Draft) (*course.Course, error)
	Update(ctx context.Context, creatorID, courseID ulid.ULID, d course.Draft) (*course.Course, error)
	ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*course.Course, error)
	Purchase(ctx context.Context, userID, courseID ulid.ULID) (*course.Purchase, error)
	Purchases(ctx context.Context, userID ulid.ULID) (*course.Library, error)
	Preview(ctx context.Context) ([]*course.Course, error)
}

// Request bodies. The jsonschema tags drive request validation.

type signupBody struct {
	Email     string `json:"email" jsonschema:"format=email,minLength=3,maxLength=100"`
	Password  string `json:"password" jsonschema:"minLength=8,maxLength=64"`
	FirstName string `json:"firstName" jsonschema:"minLength=1,maxLength=50"`
	LastName  string `json:"lastName" jsonschema:"minLength=1,maxLength=50"`
}

type signinBody struct {
	Email    string `json:"email" jsonschema:"minLength=1,maxLength=100"`
	Password string `json:"password" jsonschema:"minLength=1,maxLength=64"`
}

type courseBody struct {
	Title       string `json:"title" jsonschema:"minLength=1,maxLength=200"`
	Description string `json:"description,omitempty" jsonschema:"maxLength=4000"`
	ImageURL    string `json:"imageUrl,omitempty" jsonschema:"maxLength=2048"`
	Price       int64  `json:"price" jsonschema:"minimum=0"`
}

type courseUpdateBody struct {
	CourseID    string `json:"courseId" jsonschema:"minLength=26,maxLength=26"`
	Title       string `json:"title" jsonschema:"minLength=1,maxLength=200"`
	Description string `json:"description,omitempty" jsonschema:"maxLength=4000"`
	ImageURL    string `json:"imageUrl,omitempty" jsonschema:"maxLength=2048"`
	Price       int64  `json:"price" jsonschema:"minimum=0"`
}

type purchaseBody struct {
	CourseID string `json:"courseId" jsonschema:"minLength=26,maxLength=26"`
}

// Response bodies.

type courseJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Price       int64     `json:"price"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type purchaseJSON struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCourseJSON(cs []*course.Course) []courseJSON {
	out := make([]courseJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, courseJSON{
			ID:          c.ID.String(),
			Title:       c.Title,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			Price:       c.Price,
			CreatorID:   c.CreatorID.String(),
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out
}

func toPurchaseJSON(ps []*course.Purchase) []purchaseJSON {
	out := make([]purchaseJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, purchaseJSON{ID: p.ID.String(), CourseID: p.CourseID.String(), CreatedAt: p.CreatedAt})
	}
	return out
}

// handlers binds the route handlers to their collaborators.
type handlers struct {
	registrar     Registrar
	authenticator Authenticator
	catalog       Catalog
	recorder      Recorder
	logger        *slog.Logger
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return apperr.KindValidation.String()
	}
	return apperr.KindOf(err).String()
}

func (h *handlers) signup(role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.doSignup(r, role)
		h.recorder.AuthAttempt("signup", role.String(), outcomeOf(err))
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Signup succeeded",
			"id":      id.String(),
		})
	}
}

func (h *handlers) doSignup(r *http.Request, role auth.Role) (ulid.ULID, error) {
	var body signupBody
	if err := decodeBody(r, &body); err != nil {
		return ulid.ULID{}, err
	}
	if violations := auth.PasswordPolicyViolations(body.Password); len(violations) > 0 {
		ve := &ValidationError{}
		for _, v := range violations {
			ve.Issues = append(ve.Issues, Issue{Field: "password", Message: v})
		}
		return ulid.ULID{}, ve
	}
	return h.registrar.Signup(r.Context(), auth.SignupRequest{
		Role:     role,
		Email:    body.Email,
		Password: body.Password,
		Profile:  auth.Profile{FirstName: body.FirstName, LastName: body.LastName},
	})
}

func (h *handlers) signin(role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := h.doSignin(r, role)
		h.recorder.AuthAttempt("signin", role.String(), outcomeOf(err))
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		w.Header().Set(HeaderAuthorization, "Bearer "+token.Value)
		writeJSON(w, http.StatusOK, map[string]any{
			"token":     token.Value,
			"expiresAt": token.ExpiresAt,
		})
	}
}

func (h *handlers) doSignin(r *http.Request, role auth.Role) (*auth.Token, error) {
	var body signinBody
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	return h.authenticator.Signin(r.Context(), role, body.Email, body.Password)
}

func (h *handlers) createCourse(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var body courseBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	c, err := h.catalog.Create(r.Context(), id.SubjectID, course.Draft{
		Title:       body.Title,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		Price:       body.Price,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Course created",
		"courseId": c.ID.String(),
	})
}

func (h *handlers) updateCourse(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var body courseUpdateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	courseID, err := ulid.Parse(body.CourseID)
	if err != nil {
		writeError(w, r, h.logger, invalid("courseId", "must be a valid id"))
		return
	}
	c, err := h.catalog.Update(r.Context(), id.SubjectID, courseID, course.Draft{
		Title:       body.Title,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		Price:       body.Price,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Course updated",
		"courseId": c.ID.String(),
	})
}

func (h *handlers) listOwnCourses(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	courses, err := h.catalog.ListByCreator(r.Context(), id.SubjectID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": toCourseJSON(courses)})
}

func (h *handlers) purchase(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var body purchaseBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	courseID, err := ulid.Parse(body.CourseID)
	if err != nil {
		writeError(w, r, h.logger, invalid("courseId", "must be a valid id"))
		return
	}
	p, err := h.catalog.Purchase(r.Context(), id.SubjectID, courseID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":    "Course purchased",
		"purchaseId": p.ID.String(),
	})
}

func (h *handlers) listPurchases(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	lib, err := h.catalog.Purchases(r.Context(), id.SubjectID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"purchases": toPurchaseJSON(lib.Purchases),
		"courses":   toCourseJSON(lib.Courses),
	})
}

func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.Preview(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": toCourseJSON(courses)})
}
