// Package drm is the kernel mode-setting transport. It talks to a DRI
// character device with the DRM uapi ioctls and exposes the small slice of
// the interface needed to negotiate a connector, allocate a dumb buffer and
// program a CRTC.
package drm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/vidmode/drmshow/internal/ioctl"
)

// DefaultPath is the first DRI render device on most systems.
const DefaultPath = "/dev/dri/card0"

// ioctlType is the DRM ioctl identifier ('d').
const ioctlType = 0x64

// Capabilities, from <drm/drm.h>.
const (
	capDumbBuffer = 0x1
)

type sysGetCap struct {
	capability uint64
	value      uint64
}

var (
	// DRM_IO(0x1e)
	ioctlSetMaster = ioctl.Encode(ioctl.None, 0, ioctlType, 0x1e)

	// DRM_IO(0x1f)
	ioctlDropMaster = ioctl.Encode(ioctl.None, 0, ioctlType, 0x1f)

	// DRM_IOWR(0x0c, struct drm_get_cap)
	ioctlGetCap = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysGetCap{}, ioctlType, 0x0c)
)

// Card is an open session to a DRM device.
type Card struct {
	f    *os.File
	fd   uintptr
	path string
}

// Open a DRI device, typically /dev/dri/card[0..x].
func Open(path string) (*Card, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("drm: open %s: %w", path, err)
	}
	return &Card{
		f:    f,
		fd:   f.Fd(),
		path: path,
	}, nil
}

func (c *Card) String() string {
	return fmt.Sprintf("DRM device %s", c.path)
}

// Path of the underlying device node.
func (c *Card) Path() string {
	return c.path
}

// Close the device. Mappings obtained through Mmap are released by the
// kernel together with the device; callers unmap explicitly before closing.
func (c *Card) Close() error {
	return c.f.Close()
}

// SupportsDumbBuffers reports whether the device can allocate dumb buffers.
func (c *Card) SupportsDumbBuffers() bool {
	cap := sysGetCap{capability: capDumbBuffer}
	if err := ioctl.Do(c.fd, ioctlGetCap, &cap); err != nil {
		return false
	}
	return cap.value != 0
}

// SetMaster acquires the device master role, required for mode setting.
// Fails if another process currently holds it.
func (c *Card) SetMaster() error {
	return ioctl.Do(c.fd, ioctlSetMaster, nil)
}

// DropMaster releases the master role so other processes can configure the
// device again.
func (c *Card) DropMaster() error {
	return ioctl.Do(c.fd, ioctlDropMaster, nil)
}

// Mmap maps size bytes of device memory at the fake offset reported by
// MapDumb, shared and read/write.
func (c *Card) Mmap(offset uint64, size uint64) ([]byte, error) {
	return unix.Mmap(int(c.fd), int64(offset), int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

// Munmap releases a mapping obtained through Mmap.
func (c *Card) Munmap(data []byte) error {
	return unix.Munmap(data)
}
