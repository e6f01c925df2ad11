// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errdefs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isAccess bool
		contains string
	}{
		{
			name:     "configuration",
			err:      Config("output", "is required"),
			isConfig: true,
			contains: "invalid configuration: output is required",
		},
		{
			name:     "access",
			err:      Access("stat", "/src/missing", fs.ErrNotExist),
			isAccess: true,
			contains: "filesystem access: stat /src/missing: file does not exist",
		},
		{
			name:     "wrapped_access",
			err:      errors.Errorf("resolving source: %w", Access("read", "/src/a", fs.ErrPermission)),
			isAccess: true,
			contains: "resolving source: filesystem access: read /src/a",
		},
		{
			name:     "plain",
			err:      errors.New("boom"),
			contains: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, IsConfiguration(tt.err), "configuration kind should match")
			assert.Equal(t, tt.isAccess, IsAccess(tt.err), "access kind should match")
			assert.Contains(t, tt.err.Error(), tt.contains, "message should contain expected text")
		})
	}
}

func TestAccessUnwrapsCause(t *testing.T) {
	err := Access("readdir", "/src", fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrPermission, "cause should be reachable")
}
