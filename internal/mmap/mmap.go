// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap maps files read-only into memory.  It is used to
// source a device payload from disk at process start: the mapping is
// private, never written through, and advised as will-need so the
// whole payload is resident before the first read is served.
package mmap

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// ReaderAt is a read-only mapping of an entire file.
type ReaderAt struct {
	data     []byte
	isClosed atomic.Bool
}

// Open maps the file at path.  An empty file yields a valid ReaderAt
// with zero-length data (mmap of length 0 is an error, so it is not
// attempted).
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	stats, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := stats.Size()
	if size == 0 {
		return &ReaderAt{}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("file %s too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap(%s): %w", path, err)
	}
	if err := unix.Madvise(data, unix.MADV_WILLNEED); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("unix.Madvise: %w", err)
	}

	return &ReaderAt{data: data}, nil
}

// Data returns the mapped bytes.  The slice is invalid after Close.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Len returns the length of the mapping.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

func (r *ReaderAt) Close() error {
	if r.isClosed.Swap(true) {
		return nil
	}
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unix.Munmap: %w", err)
	}
	return nil
}
