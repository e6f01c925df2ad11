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

package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 Write materializes the output tree on fs, applying each record's mode.
func Write(ctx context.Context, fs billy.Filesystem, files *Files) error {
	logger := zerolog.Ctx(ctx)

	for _, key := range files.Keys() {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("writing output: %w", err)
		}

		rec, _ := files.Get(key)
		mode, err := ParseMode(rec.Mode)
		if err != nil {
			return errors.Errorf("writing %s: %w", key, err)
		}

		if err := fs.MkdirAll(filepath.Dir(key), 0755); err != nil {
			return errors.Errorf("creating parent directories for %s: %w", key, err)
		}

		// WriteFile only applies perm to new files
		ch, canChmod := fs.(billy.Change)
		if !canChmod {
			if err := fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
				return errors.Errorf("replacing %s: %w", key, err)
			}
		}

		if err := util.WriteFile(fs, key, rec.Contents, mode); err != nil {
			return errors.Errorf("writing %s: %w", key, err)
		}

		if canChmod {
			if err := ch.Chmod(key, mode); err != nil {
				return errors.Errorf("setting mode on %s: %w", key, err)
			}
		}

		logger.Debug().Str("path", key).Str("mode", rec.Mode).Int("size", len(rec.Contents)).Msg("wrote file")
	}

	return nil
}
