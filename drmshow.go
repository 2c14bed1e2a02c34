// Package drmshow puts an image on a display output through the kernel
// mode-setting interface and holds it there until told to stop.
//
// The package negotiates a connector and its preferred mode, allocates a
// dumb buffer, maps it into process memory, binds it to the display
// pipeline and restores the previous pipeline state on teardown.
package drmshow

import "github.com/vidmode/drmshow/drm"

// Card is the device session the display lifecycle runs against. It is
// implemented by [drm.Card] and by test doubles.
type Card interface {
	// SupportsDumbBuffers reports whether the device can allocate dumb buffers.
	SupportsDumbBuffers() bool

	// Resources enumerates the mode-setting objects of the device.
	Resources() (*drm.Resources, error)

	// Connector queries one connector.
	Connector(id uint32) (*drm.Connector, error)

	// Encoder queries one encoder.
	Encoder(id uint32) (*drm.Encoder, error)

	// Crtc queries the current state of one CRTC.
	Crtc(id uint32) (*drm.Crtc, error)

	// SetCrtc programs a CRTC. Requires the master role.
	SetCrtc(crtcID, fbID uint32, connectors []uint32, mode *drm.ModeInfo) error

	// CreateDumb allocates a dumb buffer.
	CreateDumb(width, height, bpp uint32) (*drm.DumbBuffer, error)

	// AddFB registers a buffer object as a framebuffer.
	AddFB(width, height uint32, depth, bpp uint8, pitch, handle uint32) (uint32, error)

	// RmFB removes a framebuffer registration.
	RmFB(id uint32) error

	// MapDumb reports the mmap offset for a dumb buffer handle.
	MapDumb(handle uint32) (uint64, error)

	// DestroyDumb releases a dumb buffer.
	DestroyDumb(handle uint32) error

	// Mmap maps device memory into the process address space.
	Mmap(offset, size uint64) ([]byte, error)

	// Munmap releases a mapping.
	Munmap(data []byte) error

	// SetMaster acquires the exclusive mode-setting role.
	SetMaster() error

	// DropMaster releases the mode-setting role.
	DropMaster() error
}

// Source yields a raw pixel payload. The byte layout must already match the
// pixel format and pitch of the mapped buffer; no conversion is performed.
type Source interface {
	Payload() ([]byte, error)
}

// Bytes is a Source backed by a byte slice.
type Bytes []byte

// Payload implements Source.
func (b Bytes) Payload() ([]byte, error) {
	return b, nil
}
