// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chrdev

import "errors"

var (
	// ErrSessionLimit is returned by Device.Open when the device was
	// configured with a maximum session count and every slot is in
	// use.  Closing any open session frees a slot.
	ErrSessionLimit = errors.New("session limit reached")

	// ErrSessionClosed is returned by Session.Read after Close.  It
	// indicates a protocol violation by the caller, not a condition
	// the device recovers from.
	ErrSessionClosed = errors.New("read on closed session")

	// ErrTransferFault is wrapped into the error returned by
	// Session.Read when the transfer collaborator reports that the
	// destination was unusable.  The cursor does not advance, so a
	// retry observes the same bytes.
	ErrTransferFault = errors.New("transfer fault")
)
