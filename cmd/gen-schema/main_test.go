// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schemas")

	paths, err := generate(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "course.schema.json"),
		filepath.Join(dir, "course-update.schema.json"),
		filepath.Join(dir, "purchase.schema.json"),
		filepath.Join(dir, "signin.schema.json"),
		filepath.Join(dir, "signup.schema.json"),
	}, paths)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, json.Valid(data), p)
	}
}
