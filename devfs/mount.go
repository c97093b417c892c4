// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package devfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/rs/zerolog"

	"github.com/malbolge/chrdev"
)

// Options configures the mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	// It is created if it does not exist.
	Mountpoint string

	// Device is the endpoint to expose.  Its name becomes the single
	// file under the mountpoint.
	Device *chrdev.Device

	// AllowOther permits other users to open the device.  Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages.  The zero value logs
	// nothing useful; pass zerolog.Nop() to silence it explicitly.
	Logger zerolog.Logger
}

// Mount registers the device under options.Mountpoint as a single
// read-only file.  On failure nothing is left mounted.  The caller
// must call Unmount on the returned server when done; that is the
// deregistration step.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Device == nil {
		return nil, fmt.Errorf("device is required")
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &rootNode{options: &options}

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		MountOptions: fuse.MountOptions{
			FsName:     "chrdev",
			Name:       "chrdev",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info().
		Str("mountpoint", options.Mountpoint).
		Str("device", options.Device.Name()).
		Int64("size", options.Device.Size()).
		Str("checksum", fmt.Sprintf("%016x", options.Device.Checksum())).
		Msg("device registered")
	return server, nil
}

// rootNode is the filesystem root, holding the device file as its
// only child.
type rootNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*rootNode)(nil)
var _ gofuse.NodeOnAdder = (*rootNode)(nil)

func (r *rootNode) OnAdd(ctx context.Context) {
	node := &deviceNode{options: r.options}
	child := r.NewPersistentInode(ctx, node, gofuse.StableAttr{Mode: syscall.S_IFREG})
	r.AddChild(r.options.Device.Name(), child, true)
}

// deviceNode is the device file.  Every open allocates a fresh
// session; the kernel never caches reads, so each reader drains its
// own cursor exactly like a stream device.
type deviceNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*deviceNode)(nil)
var _ gofuse.NodeGetattrer = (*deviceNode)(nil)
var _ gofuse.NodeOpener = (*deviceNode)(nil)

func (n *deviceNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0o444
	out.Size = uint64(n.options.Device.Size())
	return 0
}

func (n *deviceNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}

	session, err := n.options.Device.Open()
	if err != nil {
		if errors.Is(err, chrdev.ErrSessionLimit) {
			return nil, 0, syscall.ENOMEM
		}
		n.options.Logger.Error().Err(err).Msg("open failed")
		return nil, 0, syscall.EIO
	}

	n.options.Logger.Debug().
		Str("device", n.options.Device.Name()).
		Int("sessions", n.options.Device.Sessions()).
		Msg("session opened")

	// Direct IO keeps the page cache out of the way, and nonseekable
	// makes the kernel issue strictly sequential reads, so the
	// session cursor is the only position that exists.
	return &sessionHandle{options: n.options, session: session}, fuse.FOPEN_DIRECT_IO | fuse.FOPEN_NONSEEKABLE, 0
}

// sessionHandle owns one session for the lifetime of one open file
// descriptor.
type sessionHandle struct {
	options *Options
	session *chrdev.Session
}

var _ gofuse.FileReader = (*sessionHandle)(nil)
var _ gofuse.FileReleaser = (*sessionHandle)(nil)

func (h *sessionHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	// The handle was opened nonseekable: offsets arrive in order, so
	// the read is served from the session cursor.
	n, err := h.session.Read(dest)
	switch {
	case err == nil || errors.Is(err, io.EOF):
		return fuse.ReadResultData(dest[:n]), 0
	case errors.Is(err, chrdev.ErrSessionClosed):
		return nil, syscall.EBADF
	default:
		h.options.Logger.Error().Err(err).Int64("offset", off).Msg("read failed")
		return nil, syscall.EIO
	}
}

func (h *sessionHandle) Release(ctx context.Context) syscall.Errno {
	_ = h.session.Close()
	h.options.Logger.Debug().
		Str("device", h.options.Device.Name()).
		Int("sessions", h.options.Device.Sessions()).
		Msg("session released")
	return 0
}
