// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload")
	contents := []byte("Hello CLT 2024\n")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, len(contents), r.Len())
	require.Equal(t, contents, r.Data())

	require.NoError(t, r.Close())
	require.Nil(t, r.Data())
	// Close is idempotent.
	require.NoError(t, r.Close())
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	require.Zero(t, r.Len())
	require.NoError(t, r.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
