// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chrdev

// Transfer moves payload bytes into memory the device does not own.
// It is the analogue of a kernel's copy-to-user primitive: the
// destination belongs to the caller and may be unusable, in which
// case Copy returns an error.
//
// Copy is treated as all-or-nothing.  src and dst are always the
// same length; on error the device assumes no bytes were delivered
// and does not account for any partial prefix the implementation may
// have written.
type Transfer interface {
	Copy(dst, src []byte) error
}

// memTransfer is the default Transfer: a plain memory copy inside
// the process, which cannot fail.
type memTransfer struct{}

func (memTransfer) Copy(dst, src []byte) error {
	copy(dst, src)
	return nil
}
