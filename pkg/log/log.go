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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/gather/pkg/gather"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	keyWidth   = 40 // Base width for destination key
	typeWidth  = 6  // Width for source type
	modeWidth  = 6  // Width for mode
)

// 🎯 FileOperation represents one inserted file for logging
type FileOperation struct {
	Key     string // Destination key in the output tree
	Source  string // Configured source the file came from
	Mode    string // Octal mode
	Size    int    // Bytes
	FromDir bool   // Whether the source was a directory
}

// 📦 BuildOperation represents one gather run for logging
type BuildOperation struct {
	Config  string   // Config file path
	Output  string   // Destination directory
	Sources []string // Configured sources
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BuildOperation
	operations []FileOperation
}

var _ gather.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context. Without one, console output
// is discarded and structured lines go to the context's zerolog logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return New(io.Discard, *zerolog.Ctx(ctx))
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	typ, typeColor := "file", color.FgYellow
	if op.FromDir {
		typ, typeColor = "dir", color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(color.FgGreen).Sprint("✓"),
		fmt.Sprintf("%-*s", keyWidth, op.Key),
		color.New(typeColor).Sprint(fmt.Sprintf("%-*s", typeWidth, typ)),
		fmt.Sprintf("%-*s", modeWidth, op.Mode),
		color.New(color.Faint).Sprint(humanSize(op.Size)))
}

// 📏 humanSize renders a byte count
func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("key", op.Key).
		Str("source", op.Source).
		Str("mode", op.Mode).
		Int("size", op.Size).
		Bool("from_dir", op.FromDir).
		Msg("file inserted")
}

// 📣 Inserted implements gather.Reporter
func (l *Logger) Inserted(ctx context.Context, ins gather.Insertion) {
	l.LogFileOperation(ctx, FileOperation{
		Key:     ins.Key,
		Source:  ins.Source,
		Mode:    ins.Mode,
		Size:    ins.Size,
		FromDir: ins.Path != ins.Source,
	})
}

// 📝 StartBuild starts a new build operation
func (l *Logger) StartBuild(ctx context.Context, op BuildOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[gathering into %s]\n",
		color.New(color.FgCyan).Sprint(op.Output))

	for _, src := range op.Sources {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(src))
	}

	l.zlog.Info().
		Str("config", op.Config).
		Str("output", op.Output).
		Strs("sources", op.Sources).
		Msg("starting build")
}

// 📝 EndBuild ends the current build operation and returns the number of files logged
func (l *Logger) EndBuild(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return 0
	}

	n := len(l.operations)
	l.zlog.Info().
		Str("output", l.currentOp.Output).
		Int("files", n).
		Msg("build complete")

	l.currentOp = nil
	l.operations = nil
	return n
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("gather")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
