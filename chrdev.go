// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chrdev

import (
	"sync/atomic"

	"github.com/dgryski/go-farm"
)

// DefaultName is the endpoint name used when Options.Name is empty.
const DefaultName = "chrdev"

// Options configures a Device.  The zero value is valid: an unnamed
// device with no session cap and a direct in-process memory copy.
type Options struct {
	// Name identifies the endpoint, e.g. to a mount layer.  Defaults
	// to DefaultName.
	Name string

	// MaxSessions caps the number of concurrently open sessions.
	// Zero means unlimited.
	MaxSessions int

	// Transfer is the trust-boundary copy primitive used by every
	// session.  Nil means a plain memory copy.
	Transfer Transfer
}

// Device serves a fixed payload to any number of independent
// sessions.  The payload is copied at construction and immutable
// afterwards; all methods are safe for concurrent use.
type Device struct {
	name     string
	payload  []byte
	checksum uint64
	transfer Transfer

	maxSessions int64
	sessions    atomic.Int64
}

// New returns a Device serving the given payload.  The payload bytes
// are copied, so the caller's slice may be reused or mutated freely
// afterwards.  An empty (or nil) payload is valid: every session is
// immediately at end-of-stream.
func New(payload []byte, options Options) *Device {
	if options.Name == "" {
		options.Name = DefaultName
	}
	if options.Transfer == nil {
		options.Transfer = memTransfer{}
	}

	owned := make([]byte, len(payload))
	copy(owned, payload)

	return &Device{
		name:        options.Name,
		payload:     owned,
		checksum:    farm.Hash64(owned),
		transfer:    options.Transfer,
		maxSessions: int64(options.MaxSessions),
	}
}

// Name returns the endpoint name.
func (d *Device) Name() string {
	return d.name
}

// Size returns the payload length in bytes.
func (d *Device) Size() int64 {
	return int64(len(d.payload))
}

// Checksum returns a 64-bit checksum of the payload, fixed for the
// device's lifetime.
func (d *Device) Checksum() uint64 {
	return d.checksum
}

// Sessions returns the number of currently open sessions.
func (d *Device) Sessions() int {
	return int(d.sessions.Load())
}

// Open allocates a fresh Session positioned at the start of the
// payload.  It fails only with ErrSessionLimit, when a configured
// session cap is exhausted; no session state is retained on failure.
// Sessions are independent: each observes the full payload from
// offset zero regardless of what other sessions have read.
func (d *Device) Open() (*Session, error) {
	if n := d.sessions.Add(1); d.maxSessions > 0 && n > d.maxSessions {
		d.sessions.Add(-1)
		return nil, ErrSessionLimit
	}
	return &Session{
		dev: d,
		end: len(d.payload),
	}, nil
}

// release returns a session slot.  Called exactly once per session,
// guarded by the session's closed flag.
func (d *Device) release() {
	d.sessions.Add(-1)
}
