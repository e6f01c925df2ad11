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
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DoneFunc is the completion callback handed to a plugin. A nil error means success.
type DoneFunc func(err error)

// 🔌 Plugin is one stage of a build. Run mutates files and reports completion
// by calling done exactly once, possibly from another goroutine. done must be
// called even after ctx is cancelled; files is not touched once it has been.
type Plugin interface {
	Run(ctx context.Context, files *Files, meta Metadata, done DoneFunc)
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(ctx context.Context, files *Files, meta Metadata, done DoneFunc)

// Run implements Plugin.
func (f PluginFunc) Run(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
	f(ctx, files, meta, done)
}

// 🏗️ Pipeline runs plugins sequentially against one output tree
type Pipeline struct {
	meta    Metadata
	plugins []Plugin
}

// 🏭 New creates a pipeline with the given metadata handle
func New(meta Metadata) *Pipeline {
	if meta == nil {
		meta = Metadata{}
	}
	return &Pipeline{meta: meta}
}

// Use appends plugins to the pipeline.
func (p *Pipeline) Use(plugins ...Plugin) *Pipeline {
	p.plugins = append(p.plugins, plugins...)
	return p
}

// 🏃 Build runs every plugin in order and stops at the first error.
func (p *Pipeline) Build(ctx context.Context, files *Files) error {
	logger := zerolog.Ctx(ctx)

	for i, plugin := range p.plugins {
		logger.Debug().Int("plugin", i).Msg("running plugin")
		if err := p.run(ctx, plugin, files); err != nil {
			return errors.Errorf("plugin %d: %w", i, err)
		}
	}

	logger.Debug().Int("files", files.Len()).Msg("build complete")
	return nil
}

// ⚡ run waits for the plugin's completion callback. On cancellation it still
// waits, so no plugin writes to files after Build returns.
func (p *Pipeline) run(ctx context.Context, plugin Plugin, files *Files) error {
	errCh := make(chan error, 1)
	var once sync.Once
	done := func(err error) {
		once.Do(func() {
			errCh <- err
		})
	}

	plugin.Run(ctx, files, p.meta, done)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		zerolog.Ctx(ctx).Debug().Msg("build cancelled, waiting for plugin to finish")
		<-errCh
		return errors.Errorf("build cancelled: %w", ctx.Err())
	}
}
