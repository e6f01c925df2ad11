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

package gather

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/gather/pkg/errdefs"
	"github.com/walteh/gather/pkg/pipeline"
	"github.com/walteh/gather/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// 🧮 coordinator fans out one task per source and one per file insertion
// on a single group; the group's Wait is the only completion signal.
type coordinator struct {
	plugin   *Plugin
	group    *errgroup.Group
	sem      *semaphore.Weighted
	files    *pipeline.Files
	inserted atomic.Int64
}

// 🎯 resolve stats one source and schedules its insertions. The mode of the
// source root is reused for every file under it.
func (c *coordinator) resolve(ctx context.Context, src string) error {
	logger := zerolog.Ctx(ctx)
	p := c.plugin

	kind, info, err := walk.Classify(p.fs, src)
	if err != nil {
		return errors.Errorf("resolving %s: %w", src, err)
	}
	mode := pipeline.Octal(info.Mode())

	logger.Debug().Str("source", src).Stringer("kind", kind).Str("mode", mode).Msg("resolved source")

	if kind != walk.KindDir {
		name := filepath.Base(src)
		if p.ignored(ctx, name) {
			return nil
		}
		c.schedule(ctx, src, src, filepath.Join(p.opts.Output, name), mode)
		return nil
	}

	paths, err := p.walker.Walk(ctx, src)
	if err != nil {
		return errors.Errorf("walking %s: %w", src, err)
	}

	for _, path := range paths {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		if p.ignored(ctx, rel) {
			continue
		}
		c.schedule(ctx, src, path, filepath.Join(p.opts.Output, rel), mode)
	}

	return nil
}

// 📤 schedule adds one insertion task to the group
func (c *coordinator) schedule(ctx context.Context, src, path, key, mode string) {
	c.group.Go(func() error {
		return c.insert(ctx, src, path, key, mode)
	})
}

// 📄 insert reads path and stores it under key
func (c *coordinator) insert(ctx context.Context, src, path, key, mode string) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return errors.Errorf("reading %s: %w", path, err)
	}
	defer c.sem.Release(1)

	data, err := util.ReadFile(c.plugin.fs, path)
	if err != nil {
		return errdefs.Access("read", path, err)
	}

	rec := &pipeline.FileRecord{
		Contents: data,
		Mode:     mode,
	}
	c.files.Set(key, rec)
	c.inserted.Add(1)

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("key", key).Msg("inserted file")

	if c.plugin.reporter != nil {
		c.plugin.reporter.Inserted(ctx, Insertion{
			Source: src,
			Path:   path,
			Key:    key,
			Mode:   mode,
			Size:   len(data),
		})
	}

	return nil
}

// 🔍 ignored checks rel against the configured ignore patterns
func (p *Plugin) ignored(ctx context.Context, rel string) bool {
	logger := zerolog.Ctx(ctx)
	slashed := filepath.ToSlash(rel)

	for _, pattern := range p.opts.Ignore {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}

	return false
}
