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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/gather/pkg/errdefs"
	"gitlab.com/tozd/go/errors"
)

// DefaultConcurrency bounds in-flight insertion tasks when Options.Concurrency is unset.
const DefaultConcurrency = 16

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the options from bytes
	Parse(ctx context.Context, data []byte) (*Options, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Options configures the gather plugin
type Options struct {
	Files       PathList `json:"files" yaml:"files"`                                 // Source files or directories
	Output      string   `json:"output" yaml:"output"`                               // Destination directory in the output tree
	Ignore      []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`           // Glob patterns for files to skip
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // Max in-flight insertions
}

// 🎯 Load loads the options from a file
func Load(ctx context.Context, path string) (*Options, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	opts, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return opts, nil
}

// 🔍 Validate checks the options, cleans paths and applies defaults.
// Every failure is an errdefs.ConfigurationError.
func (o *Options) Validate() error {
	if len(o.Files) == 0 {
		return errdefs.Config("files", "is required")
	}
	for i, f := range o.Files {
		if strings.TrimSpace(f) == "" {
			return errdefs.Config("files", fmt.Sprintf("entry %d is empty", i))
		}
		o.Files[i] = filepath.Clean(f)
	}

	if strings.TrimSpace(o.Output) == "" {
		return errdefs.Config("output", "is required")
	}
	o.Output = filepath.Clean(o.Output)

	for _, pattern := range o.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errdefs.Config("ignore", fmt.Sprintf("has invalid pattern %q", pattern))
		}
	}

	if o.Concurrency < 0 {
		return errdefs.Config("concurrency", "must not be negative")
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}

	return nil
}

// 📝 String returns a string representation of the options
func (o *Options) String() string {
	return fmt.Sprintf("[%s] -> %s", strings.Join(o.Files, ", "), o.Output)
}
