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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStampLabel(t *testing.T) {
	tests := []struct {
		name  string
		stamp buildStamp
		want  string
	}{
		{
			name:  "devel",
			stamp: buildStamp{Module: "(devel)"},
			want:  "(devel)",
		},
		{
			name:  "tagged_with_revision",
			stamp: buildStamp{Module: "v0.3.0", Revision: "1a2b3c4d5e6f"},
			want:  "v0.3.0+1a2b3c4",
		},
		{
			name:  "dirty_tree",
			stamp: buildStamp{Module: "v0.3.0", Revision: "abc", Dirty: true},
			want:  "v0.3.0+abc-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stamp.Label(), "label should match")
			assert.Contains(t, tt.stamp.String(), "gather "+tt.want, "version output should carry the label")
		})
	}
}
