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

package config

import (
	"bytes"
	"encoding/json"

	"github.com/walteh/gather/pkg/errdefs"
	"gopkg.in/yaml.v3"
)

// 📂 PathList accepts either a single path string or a list of path strings.
type PathList []string

func errPathListType() error {
	return errdefs.Config("files", "must be a path string or a list of path strings")
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() != "!!str" {
			return errPathListType()
		}
		*p = PathList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				return errPathListType()
			}
			list = append(list, item.Value)
		}
		*p = list
		return nil
	default:
		return errPathListType()
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*p = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PathList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}

	return errPathListType()
}
