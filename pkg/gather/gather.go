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

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/gather/pkg/config"
	"github.com/walteh/gather/pkg/pipeline"
	"github.com/walteh/gather/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// 📣 Insertion describes one file added to the output tree
type Insertion struct {
	Source string // Configured source path the file came from
	Path   string // File that was read
	Key    string // Destination key in the output tree
	Mode   string // Octal mode stored in the record
	Size   int    // Bytes read
}

// 📣 Reporter is told about every insertion. It may be called concurrently.
type Reporter interface {
	Inserted(ctx context.Context, ins Insertion)
}

// 🔌 Plugin copies the configured sources into one output directory
type Plugin struct {
	opts     config.Options
	fs       billy.Filesystem
	walker   *walk.Walker
	reporter Reporter
}

var _ pipeline.Plugin = (*Plugin)(nil)

// 🏭 New validates opts and creates the plugin. Configuration problems are
// reported here, before any filesystem access.
func New(opts config.Options, fs billy.Filesystem, reporter Reporter) (*Plugin, error) {
	if fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}

	opts.Files = append(config.PathList(nil), opts.Files...)
	opts.Ignore = append([]string(nil), opts.Ignore...)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Plugin{
		opts:     opts,
		fs:       fs,
		walker:   walk.New(fs),
		reporter: reporter,
	}, nil
}

// 🏃 Run implements pipeline.Plugin. done is called exactly once, from a new goroutine.
func (p *Plugin) Run(ctx context.Context, files *pipeline.Files, meta pipeline.Metadata, done pipeline.DoneFunc) {
	go func() {
		done(p.Gather(ctx, files))
	}()
}

// 📥 Gather inserts every configured source into files and blocks until all
// insertions finish or the first one fails. Records inserted before a
// failure stay in files.
func (p *Plugin) Gather(ctx context.Context, files *pipeline.Files) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Strs("files", p.opts.Files).Str("output", p.opts.Output).Msg("gathering files")

	g, gctx := errgroup.WithContext(ctx)
	c := &coordinator{
		plugin: p,
		group:  g,
		sem:    semaphore.NewWeighted(int64(p.opts.Concurrency)),
		files:  files,
	}

	for _, src := range p.opts.Files {
		g.Go(func() error {
			return c.resolve(gctx, src)
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("gathering into %s: %w", p.opts.Output, err)
	}

	logger.Debug().Int64("inserted", c.inserted.Load()).Msg("gather complete")
	return nil
}
