// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero scrubs byte buffers.  A destination handed to a
// failed transfer may hold a partial prefix of the payload; zeroing
// it keeps unaccounted bytes from escaping the device.
package zero

func Bytes(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}
