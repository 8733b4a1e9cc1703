// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"encoding/json"
	"reflect"

	"github.com/samber/oops"
)

// requestBodies names the body type of every route that takes one.
var requestBodies = map[string]reflect.Type{
	"signup":        reflect.TypeFor[signupBody](),
	"signin":        reflect.TypeFor[signinBody](),
	"course":        reflect.TypeFor[courseBody](),
	"course-update": reflect.TypeFor[courseUpdateBody](),
	"purchase":      reflect.TypeFor[purchaseBody](),
}

// RequestSchemas returns the indented JSON schema of every request body,
// keyed by body name. These are the schemas requests are validated against.
func RequestSchemas() (map[string][]byte, error) {
	out := make(map[string][]byte, len(requestBodies))
	for name, t := range requestBodies {
		schema := reflectSchema(t)
		schema.Title = "coursegate " + name + " request"
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, oops.Code("SCHEMA_BUILD_FAILED").With("body", name).Wrap(err)
		}
		out[name] = data
	}
	return out, nil
}
