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

// Package pipeline is the host side of a gather build: the in-memory output
// tree, the plugin contract and a small driver that runs plugins in order.
package pipeline

import (
	"sort"
	"sync"
)

// 📄 FileRecord is one file in the output tree
type FileRecord struct {
	Contents []byte // Raw file bytes
	Mode     string // Permission bits as an octal string, e.g. "644"
}

// 🗂️ Metadata is the opaque services handle a host passes to every plugin
type Metadata map[string]any

// 🌳 Files maps destination paths to records. Set is safe for concurrent use
// and the last write to a key wins.
type Files struct {
	mu      sync.RWMutex
	entries map[string]*FileRecord
}

// 🏭 NewFiles creates an empty output tree
func NewFiles() *Files {
	return &Files{
		entries: make(map[string]*FileRecord),
	}
}

// Set inserts or replaces the record at key.
func (f *Files) Set(key string, rec *FileRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = rec
}

// Get returns the record at key.
func (f *Files) Get(key string) (*FileRecord, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.entries[key]
	return rec, ok
}

// Len returns the number of records.
func (f *Files) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// Keys returns every key in sorted order.
func (f *Files) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the tree.
func (f *Files) Snapshot() map[string]FileRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]FileRecord, len(f.entries))
	for k, v := range f.entries {
		out[k] = *v
	}
	return out
}
