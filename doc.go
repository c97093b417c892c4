// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package chrdev implements a character-device-like endpoint that
// serves a fixed, read-only byte payload to independent readers.
//
// A Device owns the payload, which is copied at construction time and
// never mutated afterwards, so it is safe to read from any number of
// sessions without locking.  Each call to Open allocates a fresh
// Session: a cursor over the payload that implements io.ReadCloser
// with ordinary sequential-file semantics.  A read returns at most as
// many bytes as remain before the session's end bound, and a session
// whose cursor has reached that bound reports io.EOF for every
// subsequent read.
//
// Conceptually a session looks like:
//
//	          cursor          end
//	            │              │
//	┌───────────┼──────────────┤
//	│ delivered │ remaining    │
//	└───────────┴──────────────┘
//	payload (shared, immutable)
//
// Bytes leave the device through a Transfer, the single point where
// the payload crosses into memory the device does not own.  A failed
// transfer leaves the cursor where it was, so the caller can retry
// with a usable destination and observe the same bytes.
package chrdev
