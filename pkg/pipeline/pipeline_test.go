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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestFilesConcurrentSet(t *testing.T) {
	files := NewFiles()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			files.Set(fmt.Sprintf("/dist/%03d.txt", i), &FileRecord{Contents: []byte("x"), Mode: "644"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, files.Len(), "all records should be present")
	keys := files.Keys()
	assert.Equal(t, "/dist/000.txt", keys[0], "keys should be sorted")
	assert.Equal(t, "/dist/099.txt", keys[99], "keys should be sorted")
}

func TestFilesLastWriteWins(t *testing.T) {
	files := NewFiles()
	files.Set("/dist/a.txt", &FileRecord{Contents: []byte("first"), Mode: "644"})
	files.Set("/dist/a.txt", &FileRecord{Contents: []byte("second"), Mode: "600"})

	rec, ok := files.Get("/dist/a.txt")
	require.True(t, ok, "record should exist")
	assert.Equal(t, "second", string(rec.Contents), "last write should win")
	assert.Equal(t, "600", rec.Mode, "last write should win")

	snap := files.Snapshot()
	assert.Len(t, snap, 1, "snapshot should have one entry")
}

func TestBuild(t *testing.T) {
	ctx := testContext(t)

	var order []string
	first := PluginFunc(func(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
		order = append(order, "first")
		files.Set("/a", &FileRecord{Mode: "644"})
		go done(nil)
	})
	second := PluginFunc(func(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
		order = append(order, "second")
		assert.Equal(t, "site", meta["name"], "metadata should be passed through")
		_, ok := files.Get("/a")
		assert.True(t, ok, "second plugin should see first plugin's output")
		done(nil)
		done(errors.New("ignored"))
	})

	files := NewFiles()
	err := New(Metadata{"name": "site"}).Use(first, second).Build(ctx, files)
	require.NoError(t, err, "Build should succeed")
	assert.Equal(t, []string{"first", "second"}, order, "plugins should run in order")
}

func TestBuildStopsOnError(t *testing.T) {
	ctx := testContext(t)

	ran := false
	failing := PluginFunc(func(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
		done(errors.New("boom"))
	})
	after := PluginFunc(func(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
		ran = true
		done(nil)
	})

	err := New(nil).Use(failing, after).Build(ctx, NewFiles())
	require.Error(t, err, "Build should fail")
	assert.Contains(t, err.Error(), "plugin 0: boom", "error should name the plugin")
	assert.False(t, ran, "later plugins should not run")
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(testContext(t), 10*time.Millisecond)
	defer cancel()

	slow := PluginFunc(func(ctx context.Context, files *Files, meta Metadata, done DoneFunc) {
		go func() {
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			files.Set("/late", &FileRecord{Contents: []byte("late"), Mode: "644"})
			done(nil)
		}()
	})

	files := NewFiles()
	err := New(nil).Use(slow).Build(ctx, files)
	require.Error(t, err, "Build should fail when the context ends")
	assert.ErrorIs(t, err, context.DeadlineExceeded, "cause should be the deadline")
	assert.Equal(t, []string{"/late"}, files.Keys(), "Build should return only after the plugin is done")
}

func TestWrite(t *testing.T) {
	ctx := testContext(t)

	files := NewFiles()
	files.Set("/dist/readme.txt", &FileRecord{Contents: []byte("hello"), Mode: "644"})
	files.Set("/dist/img/a.png", &FileRecord{Contents: []byte("png"), Mode: "755"})

	fs := memfs.New()
	require.NoError(t, Write(ctx, fs, files), "Write should succeed")

	data, err := util.ReadFile(fs, "/dist/readme.txt")
	require.NoError(t, err, "reading written file should succeed")
	assert.Equal(t, "hello", string(data), "contents should match")

	data, err = util.ReadFile(fs, "/dist/img/a.png")
	require.NoError(t, err, "reading nested file should succeed")
	assert.Equal(t, "png", string(data), "contents should match")
}

func TestWriteAppliesMode(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	files := NewFiles()
	files.Set(filepath.Join(root, "out", "run.sh"), &FileRecord{Contents: []byte("#!/bin/sh"), Mode: "750"})
	files.Set(filepath.Join(root, "out", "secret"), &FileRecord{Contents: []byte("s"), Mode: "600"})

	require.NoError(t, Write(ctx, osfs.New("/"), files), "Write should succeed")

	info, err := os.Stat(filepath.Join(root, "out", "run.sh"))
	require.NoError(t, err, "stat should succeed")
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm(), "mode should be applied")

	info, err = os.Stat(filepath.Join(root, "out", "secret"))
	require.NoError(t, err, "stat should succeed")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be applied")

	// a second write replaces the mode of an existing file
	files.Set(filepath.Join(root, "out", "run.sh"), &FileRecord{Contents: []byte("#!/bin/sh"), Mode: "700"})
	require.NoError(t, Write(ctx, osfs.New("/"), files), "second Write should succeed")

	info, err = os.Stat(filepath.Join(root, "out", "run.sh"))
	require.NoError(t, err, "stat should succeed")
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm(), "mode should be replaced")
}

func TestWriteRejectsBadMode(t *testing.T) {
	files := NewFiles()
	files.Set("/dist/a", &FileRecord{Mode: "rw-r--r--"})

	err := Write(testContext(t), memfs.New(), files)
	require.Error(t, err, "Write should fail")
	assert.Contains(t, err.Error(), "parsing mode", "error should mention the mode")
}
