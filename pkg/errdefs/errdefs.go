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

// Package errdefs defines the two error kinds gather reports to a host pipeline.
package errdefs

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ⚙️ ConfigurationError reports invalid or missing plugin configuration.
// It is returned before any filesystem access happens.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// 💾 FilesystemAccessError wraps a failed stat, readdir, readlink or read.
type FilesystemAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemAccessError) Error() string {
	return fmt.Sprintf("filesystem access: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemAccessError) Unwrap() error {
	return e.Err
}

// 🏭 Config returns a ConfigurationError with a stack attached.
func Config(field, reason string) error {
	return errors.WithStack(&ConfigurationError{Field: field, Reason: reason})
}

// 🏭 Access returns a FilesystemAccessError with a stack attached.
func Access(op, path string, err error) error {
	return errors.WithStack(&FilesystemAccessError{Op: op, Path: path, Err: err})
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}

// IsAccess reports whether err is, or wraps, a FilesystemAccessError.
func IsAccess(err error) bool {
	var aerr *FilesystemAccessError
	return errors.As(err, &aerr)
}
