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

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// 🏷️ buildStamp is what the binary knows about itself
type buildStamp struct {
	Module   string
	Revision string
	Dirty    bool
	Go       string
}

// readBuildStamp reads the module version and VCS settings embedded by the Go toolchain
func readBuildStamp() buildStamp {
	stamp := buildStamp{Module: "(devel)", Go: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return stamp
	}
	if bi.Main.Version != "" {
		stamp.Module = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			stamp.Revision = s.Value
		case "vcs.modified":
			stamp.Dirty = s.Value == "true"
		}
	}
	return stamp
}

// Label is the short form recorded in pipeline metadata, e.g. "v0.3.0+1a2b3c4-dirty"
func (s buildStamp) Label() string {
	var b strings.Builder
	b.WriteString(s.Module)
	if s.Revision != "" {
		rev := s.Revision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		b.WriteString("+" + rev)
	}
	if s.Dirty {
		b.WriteString("-dirty")
	}
	return b.String()
}

// String renders the output of the version command
func (s buildStamp) String() string {
	return fmt.Sprintf("gather %s (%s, %s/%s)\n", s.Label(), s.Go, runtime.GOOS, runtime.GOARCH)
}
