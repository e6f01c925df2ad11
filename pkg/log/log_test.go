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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gather/pkg/gather"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_build",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBuild(context.Background(), BuildOperation{
					Config:  ".gather.yaml",
					Output:  "/dist",
					Sources: []string{"/src/assets", "/src/readme.txt"},
				})
			},
			wantLogs: []string{
				"[gathering into /dist]",
				"◆ /src/assets",
				"◆ /src/readme.txt",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Errorf("error %d", 2)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"❌ error 2",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("building site")
			},
			wantLogs: []string{
				"gather • building site",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.NotPanics(t, func() {
		fallback := FromContext(context.Background())
		require.NotNil(t, fallback, "missing logger should fall back")
		fallback.Errorf("dropped %d", 1)
	}, "FromContext should not panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "single_file",
			op: FileOperation{
				Key:  "/dist/readme.txt",
				Mode: "644",
				Size: 5,
			},
			want: "    ✓ /dist/readme.txt" + strings.Repeat(" ", 24) + " file   644    5B",
		},
		{
			name: "directory_member",
			op: FileOperation{
				Key:     "/dist/img/a.png",
				Mode:    "755",
				Size:    1536,
				FromDir: true,
			},
			want: "    ✓ /dist/img/a.png" + strings.Repeat(" ", 25) + " dir    755    1.5K",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimRight(buf.String(), "\n"), "formatted output should match")
		})
	}
}

func TestInsertedCountsTowardsBuild(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, 0, logger.EndBuild(ctx), "no build should report zero files")

	logger.StartBuild(ctx, BuildOperation{Output: "/dist"})
	logger.Inserted(ctx, gather.Insertion{Source: "/src/a", Path: "/src/a/x", Key: "/dist/x", Mode: "755", Size: 1})
	logger.Inserted(ctx, gather.Insertion{Source: "/src/b.txt", Path: "/src/b.txt", Key: "/dist/b.txt", Mode: "644", Size: 1})

	assert.Equal(t, 2, logger.EndBuild(ctx), "inserted files should be counted")
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0B", humanSize(0), "zero bytes")
	assert.Equal(t, "1023B", humanSize(1023), "below a kilobyte")
	assert.Equal(t, "2.0K", humanSize(2048), "kilobytes")
	assert.Equal(t, "3.5M", humanSize(3*(1<<20)+(1<<19)), "megabytes")
}
