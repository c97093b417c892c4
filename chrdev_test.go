// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chrdev

import (
	"io"
	"testing"

	"github.com/dgryski/go-farm"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	device := New([]byte(testMessage), Options{})
	require.Equal(t, DefaultName, device.Name())
	require.Equal(t, int64(len(testMessage)), device.Size())
	require.Zero(t, device.Sessions())

	named := New(nil, Options{Name: "hello"})
	require.Equal(t, "hello", named.Name())
	require.Zero(t, named.Size())
}

func TestPayloadIsCopied(t *testing.T) {
	payload := []byte(testMessage)
	device := New(payload, Options{})

	// mutating the caller's slice must not be visible to readers
	payload[0] = 'X'

	session, err := device.Open()
	require.NoError(t, err)
	defer func() {
		_ = session.Close()
	}()

	contents, err := io.ReadAll(session)
	require.NoError(t, err)
	require.Equal(t, testMessage, string(contents))
}

func TestChecksum(t *testing.T) {
	device := New([]byte(testMessage), Options{})
	require.Equal(t, farm.Hash64([]byte(testMessage)), device.Checksum())

	other := New([]byte("something else"), Options{})
	require.NotEqual(t, device.Checksum(), other.Checksum())
}

func TestSessionLimit(t *testing.T) {
	device := New([]byte(testMessage), Options{MaxSessions: 2})

	first, err := device.Open()
	require.NoError(t, err)
	second, err := device.Open()
	require.NoError(t, err)
	require.Equal(t, 2, device.Sessions())

	_, err = device.Open()
	require.ErrorIs(t, err, ErrSessionLimit)
	// a failed open holds no slot
	require.Equal(t, 2, device.Sessions())

	// closing a session frees its slot
	require.NoError(t, first.Close())
	third, err := device.Open()
	require.NoError(t, err)

	require.NoError(t, second.Close())
	require.NoError(t, third.Close())
	require.Zero(t, device.Sessions())
}

func TestLimitFailureDoesNotAffectOpenSessions(t *testing.T) {
	device := New([]byte(testMessage), Options{MaxSessions: 1})

	session, err := device.Open()
	require.NoError(t, err)

	_, err = device.Open()
	require.ErrorIs(t, err, ErrSessionLimit)

	// the existing session is untouched by the failed open
	contents, err := io.ReadAll(session)
	require.NoError(t, err)
	require.Equal(t, testMessage, string(contents))
	require.NoError(t, session.Close())
}
