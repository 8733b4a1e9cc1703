// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package course_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/internal/course"
	"github.com/holomush/coursegate/pkg/errutil"
)

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name      string
		draft     course.Draft
		wantField string
	}{
		{name: "valid", draft: course.Draft{Title: "Go", Price: 1999}},
		{name: "free course", draft: course.Draft{Title: "Go", Price: 0}},
		{name: "empty title", draft: course.Draft{Title: "", Price: 1}, wantField: "title"},
		{name: "blank title", draft: course.Draft{Title: "   ", Price: 1}, wantField: "title"},
		{name: "long title", draft: course.Draft{Title: strings.Repeat("a", course.MaxTitleLength+1)}, wantField: "title"},
		{name: "long description", draft: course.Draft{Title: "Go", Description: strings.Repeat("a", course.MaxDescriptionLength+1)}, wantField: "description"},
		{name: "long image url", draft: course.Draft{Title: "Go", ImageURL: strings.Repeat("a", course.MaxImageURLLength+1)}, wantField: "imageUrl"},
		{name: "negative price", draft: course.Draft{Title: "Go", Price: -1}, wantField: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			errutil.AssertErrorContext(t, err, "field", tt.wantField)
		})
	}
}
