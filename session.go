// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chrdev

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/malbolge/chrdev/internal/zero"
)

// Session is one open handle on a Device: a cursor over the shared
// payload, created by Device.Open and released by Close.  It
// implements io.ReadCloser.
//
// A session is exclusively owned by its opener.  Reads on the same
// session must not be issued concurrently; sessions on the same
// device are fully independent of each other.
type Session struct {
	dev *Device

	// cursor and end delimit the undelivered range of the payload.
	// Invariant: 0 <= cursor <= end <= len(dev.payload).
	cursor int
	end    int

	isClosed atomic.Bool
}

var _ io.ReadCloser = (*Session)(nil)

// Read copies up to len(p) of the remaining payload bytes into p and
// advances the cursor by exactly the number of bytes copied.  At
// end-of-stream it returns 0, io.EOF, and keeps doing so for every
// further call.  A zero-length p reads zero bytes without error.
//
// If the device's Transfer fails, Read returns an error wrapping
// ErrTransferFault and the cursor is left unchanged: the session
// stays valid and a retry observes the same bytes.
func (s *Session) Read(p []byte) (int, error) {
	if s.isClosed.Load() {
		return 0, ErrSessionClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	available := s.end - s.cursor
	if available == 0 {
		return 0, io.EOF
	}

	n := len(p)
	if n > available {
		n = available
	}

	// Copy first, account after: a faulted transfer must not consume
	// payload the caller never received.
	if err := s.dev.transfer.Copy(p[:n], s.dev.payload[s.cursor:s.cursor+n]); err != nil {
		// The transfer may have written a prefix before faulting;
		// scrub it so the only bytes the caller ever holds are ones
		// the cursor accounts for.
		zero.Bytes(p[:n])
		return 0, fmt.Errorf("%w: %w", ErrTransferFault, err)
	}
	s.cursor += n
	return n, nil
}

// Len returns the number of undelivered bytes remaining in the
// session, mirroring bytes.Reader.
func (s *Session) Len() int {
	if s.isClosed.Load() {
		return 0
	}
	return s.end - s.cursor
}

// Size returns the total length of the range this session reads,
// independent of how much has been delivered.
func (s *Session) Size() int64 {
	return int64(s.end)
}

// Close releases the session.  It is idempotent and never returns an
// error; the device's session slot is freed on the first call only.
func (s *Session) Close() error {
	if s.isClosed.Swap(true) {
		return nil
	}
	s.dev.release()
	return nil
}
