// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chrdevfs.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
mountpoint = "/mnt/chrdev"
device_name = "hello"
payload_file = "/var/lib/chrdev/payload"
allow_other = true
max_sessions = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/mnt/chrdev", cfg.Mountpoint)
	require.Equal(t, "hello", cfg.DeviceName)
	require.Equal(t, "/var/lib/chrdev/payload", cfg.PayloadFile)
	require.True(t, cfg.AllowOther)
	require.Equal(t, 8, cfg.MaxSessions)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `mountpoint = "/mnt/chrdev"`))
	require.NoError(t, err)
	require.Equal(t, Default().DeviceName, cfg.DeviceName)
	require.Zero(t, cfg.MaxSessions)
	require.False(t, cfg.AllowOther)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, `device_name = ""`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `max_sessions = -1`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
