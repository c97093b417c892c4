// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package devfs registers a chrdev.Device with the operating system
// by mounting a one-file FUSE filesystem.  The device appears as a
// read-only file named after the device under the mountpoint; every
// open(2) on it allocates a fresh session, read(2) drains that
// session's cursor, and the final close(2) releases it.
package devfs
