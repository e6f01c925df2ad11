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

package walk

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/walteh/gather/pkg/errdefs"
	"gitlab.com/tozd/go/errors"
)

// maxSymlinkHops matches the Linux ELOOP limit.
const maxSymlinkHops = 40

var errTooManyLinks = errors.Base("too many levels of symbolic links")

// 🔗 canonical resolves every symlink in p, one component at a time.
// Filesystems without symlink support return the cleaned path.
func (w *Walker) canonical(p string) (string, error) {
	sl, ok := w.FS.(billy.Symlink)
	if !ok {
		return filepath.Clean(p), nil
	}

	sep := string(filepath.Separator)
	clean := filepath.Clean(p)

	resolved := ""
	if filepath.IsAbs(clean) {
		resolved = sep
	}
	rest := strings.Split(clean, sep)
	hops := 0

	for len(rest) > 0 {
		part := rest[0]
		rest = rest[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, part)
		info, err := sl.Lstat(next)
		if err != nil {
			return "", errdefs.Access("stat", next, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", errdefs.Access("readlink", p, errTooManyLinks)
		}

		target, err := sl.Readlink(next)
		if err != nil {
			return "", errdefs.Access("readlink", next, err)
		}
		if filepath.IsAbs(target) {
			resolved = sep
		}
		rest = append(strings.Split(filepath.Clean(target), sep), rest...)
	}

	if resolved == "" {
		return ".", nil
	}
	return resolved, nil
}
