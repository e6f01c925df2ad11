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

// Package walk lists every file nested under a directory.
package walk

import (
	"context"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/gather/pkg/errdefs"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind classifies a path after a metadata query
type Kind int

const (
	KindUnknown Kind = iota // Metadata query failed
	KindFile                // Anything that is not a directory
	KindDir                 // Directory
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "unknown"
	}
}

// 🔍 Classify stats path, following symlinks. On failure the kind is
// KindUnknown and the error is a FilesystemAccessError.
func Classify(fs billy.Basic, path string) (Kind, os.FileInfo, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return KindUnknown, nil, errdefs.Access("stat", path, err)
	}
	if info.IsDir() {
		return KindDir, info, nil
	}
	return KindFile, info, nil
}

// 🚶 Walker enumerates files depth-first, one sibling at a time
type Walker struct {
	FS billy.Filesystem
}

// 🏭 New creates a walker over fs
func New(fs billy.Filesystem) *Walker {
	return &Walker{FS: fs}
}

// 🏃 Walk returns every file under root in the order the filesystem lists
// entries, descending into each directory before moving to its next sibling.
// Any failed listing or stat aborts the walk. A directory that resolves to
// one of its own ancestors is skipped.
func (w *Walker) Walk(ctx context.Context, root string) ([]string, error) {
	canon, err := w.canonical(root)
	if err != nil {
		return nil, err
	}

	var results []string
	if err := w.walk(ctx, root, map[string]bool{canon: true}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *Walker) walk(ctx context.Context, dir string, ancestors map[string]bool, results *[]string) error {
	logger := zerolog.Ctx(ctx)

	entries, err := w.FS.ReadDir(dir)
	if err != nil {
		return errdefs.Access("readdir", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("walking %s: %w", dir, err)
		}

		path := w.FS.Join(dir, entry.Name())
		kind, _, err := Classify(w.FS, path)
		if err != nil {
			return err
		}

		if kind == KindFile {
			*results = append(*results, path)
			continue
		}

		canon, err := w.canonical(path)
		if err != nil {
			return err
		}
		if ancestors[canon] {
			logger.Debug().Str("path", path).Str("target", canon).Msg("skipping symlink cycle")
			continue
		}

		ancestors[canon] = true
		err = w.walk(ctx, path, ancestors, results)
		delete(ancestors, canon)
		if err != nil {
			return err
		}
	}

	return nil
}
