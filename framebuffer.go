package drmshow

import (
	"context"
	"fmt"

	"github.com/vidmode/drmshow/drm"
)

// State of the display lifecycle. Transitions are linear; any failure on the
// way up unwinds every resource acquired so far.
type State uint8

// Lifecycle states.
const (
	StateInit State = iota
	StateDeviceOpen
	StateConnectorFound
	StateModeSelected
	StateBufferAllocated
	StateBufferRegistered
	StateBufferMapped
	StateCaptured
	StateDisplaying
	StateTeardown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDeviceOpen:
		return "device open"
	case StateConnectorFound:
		return "connector found"
	case StateModeSelected:
		return "mode selected"
	case StateBufferAllocated:
		return "buffer allocated"
	case StateBufferRegistered:
		return "buffer registered"
	case StateBufferMapped:
		return "buffer mapped"
	case StateCaptured:
		return "pipeline captured"
	case StateDisplaying:
		return "displaying"
	case StateTeardown:
		return "teardown"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Framebuffer ties together the device session, the negotiated connector and
// mode, the dumb buffer, its mapping and the captured pipeline state. It is
// the unit of ownership: a partial construction failure releases everything
// constructed so far, in reverse order.
type Framebuffer struct {
	card   Card
	config *Config

	conn  *drm.Connector
	mode  drm.ModeInfo
	buf   *drm.DumbBuffer
	id    uint32   // registered framebuffer id
	pix   []byte   // mapped pixel memory
	saved *drm.Crtc

	state    State
	releases []func() error
}

// Open negotiates the connector and mode on card and builds the framebuffer
// up to the point where pixel data can be written: buffer allocated,
// registered, mapped, and the prior pipeline state captured for restoration.
func Open(card Card, config *Config) (*Framebuffer, error) {
	fb := &Framebuffer{
		card:   card,
		config: config.withDefaults(),
		state:  StateDeviceOpen,
	}
	if err := fb.setup(); err != nil {
		if uerr := fb.unwind(); uerr != nil {
			fb.config.logf("unwind after failed setup: %s", uerr)
		}
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) setup() error {
	if !fb.card.SupportsDumbBuffers() {
		return fmt.Errorf("%w: device does not support dumb buffers", ErrAlloc)
	}

	conn, err := FindConnector(fb.card, fb.config.Connector)
	if err != nil {
		return err
	}
	fb.conn = conn
	fb.state = StateConnectorFound
	fb.config.logf("found connector %s (id %d)", conn.Name(), conn.ID)

	mode, err := PreferredMode(conn)
	if err != nil {
		return err
	}
	fb.mode = mode
	fb.state = StateModeSelected
	fb.config.logf("selected mode %dx%d", mode.Hdisplay, mode.Vdisplay)

	buf, err := fb.card.CreateDumb(uint32(mode.Hdisplay), uint32(mode.Vdisplay), uint32(fb.config.BPP))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAlloc, err)
	}
	fb.buf = buf
	fb.releases = append(fb.releases, func() error {
		return fb.card.DestroyDumb(buf.Handle)
	})
	fb.state = StateBufferAllocated

	id, err := fb.card.AddFB(buf.Width, buf.Height, fb.config.Depth, fb.config.BPP, buf.Pitch, buf.Handle)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRegister, err)
	}
	fb.id = id
	fb.releases = append(fb.releases, func() error {
		return fb.card.RmFB(id)
	})
	fb.state = StateBufferRegistered
	fb.config.logf("registered framebuffer %d (%d bytes, pitch %d)", id, buf.Size, buf.Pitch)

	offset, err := fb.card.MapDumb(buf.Handle)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMap, err)
	}
	pix, err := fb.card.Mmap(offset, buf.Size)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMap, err)
	}
	fb.pix = pix
	fb.releases = append(fb.releases, func() error {
		fb.pix = nil
		return fb.card.Munmap(pix)
	})
	fb.state = StateBufferMapped

	if conn.EncoderID == 0 {
		return fmt.Errorf("%w: connector %s has no encoder", ErrEncoderNotFound, conn.Name())
	}
	enc, err := fb.card.Encoder(conn.EncoderID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEncoderNotFound, err)
	}
	saved, err := fb.card.Crtc(enc.CrtcID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrResourceQuery, err)
	}
	fb.saved = saved
	fb.releases = append(fb.releases, fb.restore)
	fb.state = StateCaptured
	fb.config.logf("captured crtc %d (framebuffer %d)", saved.ID, saved.FbID)

	return nil
}

// restore re-binds the CRTC to the snapshot taken at setup. It runs exactly
// once, even when teardown is entered from multiple paths.
func (fb *Framebuffer) restore() error {
	saved := fb.saved
	if saved == nil {
		return nil
	}
	fb.saved = nil

	// Become master again, else the CRTC cannot be programmed. A zero
	// FbID re-binds to "nothing", which is what the pipeline showed before.
	if err := fb.card.SetMaster(); err != nil {
		return fmt.Errorf("%w: %s", ErrMaster, err)
	}
	var mode *drm.ModeInfo
	if saved.ModeValid {
		mode = &saved.Mode
	}
	err := fb.card.SetCrtc(saved.ID, saved.FbID, []uint32{fb.conn.ID}, mode)
	if derr := fb.card.DropMaster(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return fmt.Errorf("drmshow: restore crtc %d: %w", saved.ID, err)
	}
	fb.config.logf("restored crtc %d to framebuffer %d", saved.ID, saved.FbID)
	return nil
}

func (fb *Framebuffer) unwind() error {
	fb.state = StateTeardown
	var first error
	for i := len(fb.releases) - 1; i >= 0; i-- {
		if err := fb.releases[i](); err != nil && first == nil {
			first = err
		}
	}
	fb.releases = nil
	fb.state = StateClosed
	return first
}

// State reports the current lifecycle state.
func (fb *Framebuffer) State() State {
	return fb.state
}

// Mode is the negotiated display mode.
func (fb *Framebuffer) Mode() drm.ModeInfo {
	return fb.mode
}

// Pitch is the device-determined stride in bytes.
func (fb *Framebuffer) Pitch() uint32 {
	return fb.buf.Pitch
}

// Size is the total buffer size in bytes.
func (fb *Framebuffer) Size() uint64 {
	return fb.buf.Size
}

// Pix is the mapped pixel memory. It must not be used after Close.
func (fb *Framebuffer) Pix() []byte {
	return fb.pix
}

// Draw copies the payload into the mapped buffer, starting at its first
// byte. Payloads larger than the buffer are rejected.
func (fb *Framebuffer) Draw(src Source) error {
	if fb.state != StateCaptured && fb.state != StateDisplaying {
		return fmt.Errorf("drmshow: draw in state %q", fb.state)
	}
	payload, err := src.Payload()
	if err != nil {
		return err
	}
	if len(payload) > len(fb.pix) {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(payload), len(fb.pix))
	}
	copy(fb.pix, payload)
	fb.config.logf("loaded %d byte payload", len(payload))
	return nil
}

// Bind attaches the framebuffer to the captured CRTC and connector. The
// master role is acquired for the two SetCrtc calls only and dropped right
// after, so other processes can keep configuring the device.
func (fb *Framebuffer) Bind() error {
	if fb.state != StateCaptured {
		return fmt.Errorf("drmshow: bind in state %q", fb.state)
	}
	if err := fb.card.SetMaster(); err != nil {
		return fmt.Errorf("%w: %s", ErrMaster, err)
	}

	// Detach whatever was scanned out before attaching our framebuffer.
	_ = fb.card.SetCrtc(fb.saved.ID, 0, nil, nil)

	err := fb.card.SetCrtc(fb.saved.ID, fb.id, []uint32{fb.conn.ID}, &fb.mode)
	if derr := fb.card.DropMaster(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return fmt.Errorf("drmshow: bind crtc %d: %w", fb.saved.ID, err)
	}
	fb.state = StateDisplaying
	fb.config.logf("bound framebuffer %d to crtc %d", fb.id, fb.saved.ID)
	return nil
}

// Hold blocks until ctx is canceled, keeping the image on screen. The wait
// is unbounded; cancel the context to proceed to teardown.
func (fb *Framebuffer) Hold(ctx context.Context) error {
	if fb.state != StateDisplaying {
		return fmt.Errorf("drmshow: hold in state %q", fb.state)
	}
	<-ctx.Done()
	return nil
}

// Close restores the captured pipeline state and releases the mapping, the
// framebuffer registration and the dumb buffer, in that order. Later calls
// are no-ops.
func (fb *Framebuffer) Close() error {
	if fb.state == StateClosed {
		return nil
	}
	fb.config.logf("tearing down")
	return fb.unwind()
}

// Show runs the full display lifecycle on card: negotiate connector and
// mode, allocate and map the buffer, draw the payload, bind the pipeline,
// block until ctx is canceled, then restore and release everything. The
// caller owns the card and closes it afterwards.
func Show(ctx context.Context, card Card, config *Config, src Source) error {
	fb, err := Open(card, config)
	if err != nil {
		return err
	}
	if err := fb.Draw(src); err != nil {
		_ = fb.Close()
		return err
	}
	if err := fb.Bind(); err != nil {
		_ = fb.Close()
		return err
	}
	_ = fb.Hold(ctx)
	return fb.Close()
}
