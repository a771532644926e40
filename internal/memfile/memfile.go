// Copyright 2011-2025 the ell authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memfile maps a regular file read-only so a GVariant frame read
// from disk is a borrow, not a copy, exactly like the in-memory case the
// gvariant package is built around.
package memfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only, memory-mapped view of a regular file's contents.
type File struct {
	data []byte
}

// Open maps path read-only. The returned File must be Closed, which unmaps
// the pages; any []byte handed out by Bytes becomes invalid at that point,
// the same borrow lifetime contract gvariant.Reader itself documents.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &File{data: nil}, nil
	}
	if size > 1<<32 {
		return nil, fmt.Errorf("memfile: %s is too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memfile: mmap %s: %w", path, err)
	}
	return &File{data: data}, nil
}

// Bytes returns the mapped contents. The slice is borrowed from the
// mapping; it must not be retained past Close.
func (m *File) Bytes() []byte { return m.data }

// Close unmaps the file. Calling it twice, or on a zero-length mapping, is
// a no-op.
func (m *File) Close() error {
	if len(m.data) == 0 {
		return nil
	}
	data := m.data
	m.data = nil
	return unix.Munmap(data)
}
