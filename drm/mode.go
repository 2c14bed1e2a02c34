package drm

import (
	"bytes"
	"unsafe"

	"github.com/vidmode/drmshow/internal/ioctl"
)

// Mode flags, from <drm/drm_mode.h>.
const (
	ModeTypeBuiltin   = 1 << 0
	ModeTypePreferred = 1 << 3
	ModeTypeDriver    = 1 << 6
)

// Connection states reported for a connector.
const (
	Connected         = 1
	Disconnected      = 2
	UnknownConnection = 3
)

// Wire structures, laid out exactly like their <drm/drm_mode.h> counterparts.
type (
	sysCardRes struct {
		fbIDPtr              uint64
		crtcIDPtr            uint64
		connectorIDPtr       uint64
		encoderIDPtr         uint64
		countFbs             uint32
		countCrtcs           uint32
		countConnectors      uint32
		countEncoders        uint32
		minWidth, maxWidth   uint32
		minHeight, maxHeight uint32
	}

	sysGetConnector struct {
		encodersPtr   uint64
		modesPtr      uint64
		propsPtr      uint64
		propValuesPtr uint64

		countModes    uint32
		countProps    uint32
		countEncoders uint32

		encoderID       uint32 // current encoder
		connectorID     uint32
		connectorType   uint32
		connectorTypeID uint32

		connection        uint32
		mmWidth, mmHeight uint32
		subpixel          uint32
		pad               uint32
	}

	sysGetEncoder struct {
		id  uint32
		typ uint32

		crtcID uint32

		possibleCrtcs  uint32
		possibleClones uint32
	}

	sysCrtc struct {
		setConnectorsPtr uint64
		countConnectors  uint32

		id   uint32
		fbID uint32

		x, y uint32 // position on the framebuffer

		gammaSize uint32
		modeValid uint32
		mode      ModeInfo
	}

	sysCreateDumb struct {
		height, width uint32
		bpp           uint32
		flags         uint32

		// returned values
		handle uint32
		pitch  uint32
		size   uint64
	}

	sysMapDumb struct {
		handle uint32
		pad    uint32

		// fake offset to use for the subsequent mmap call
		offset uint64
	}

	sysFBCmd struct {
		fbID          uint32
		width, height uint32
		pitch         uint32
		bpp           uint32
		depth         uint32
		handle        uint32
	}

	sysDestroyDumb struct {
		handle uint32
	}
)

// ModeInfo describes one display mode of a connector, wire-exact with
// struct drm_mode_modeinfo.
type ModeInfo struct {
	Clock                                         uint32
	Hdisplay, HsyncStart, HsyncEnd, Htotal, Hskew uint16
	Vdisplay, VsyncStart, VsyncEnd, Vtotal, Vscan uint16

	Vrefresh uint32

	Flags uint32
	Type  uint32
	Name  [32]uint8
}

// Preferred reports whether the device flagged this mode as preferred.
func (m *ModeInfo) Preferred() bool {
	return m.Type&ModeTypePreferred != 0
}

// String returns the mode name as set by the driver, e.g. "1920x1080".
func (m *ModeInfo) String() string {
	name, _, _ := bytes.Cut(m.Name[:], []byte{0})
	return string(name)
}

// Resources enumerates the mode-setting objects of a device.
type Resources struct {
	Fbs        []uint32
	Crtcs      []uint32
	Connectors []uint32
	Encoders   []uint32

	MinWidth, MaxWidth   uint32
	MinHeight, MaxHeight uint32
}

// Connector is one physical output port.
type Connector struct {
	ID        uint32
	EncoderID uint32 // current encoder, 0 if none
	Type      uint32
	TypeID    uint32

	Connection        uint32
	WidthMM, HeightMM uint32

	Modes    []ModeInfo
	Encoders []uint32
}

// Name builds the canonical connector name, "{type}-{typeindex}".
func (c *Connector) Name() string {
	return ConnectorName(c.Type, c.TypeID)
}

// Encoder converts pixel data into a signal format for a connector.
type Encoder struct {
	ID   uint32
	Type uint32

	CrtcID uint32

	PossibleCrtcs  uint32
	PossibleClones uint32
}

// Crtc is the scanout pipeline state: which framebuffer is bound and in
// which mode it is scanned out.
type Crtc struct {
	ID   uint32
	FbID uint32 // bound framebuffer, 0 = none

	X, Y uint32

	GammaSize uint32
	ModeValid bool
	Mode      ModeInfo
}

// DumbBuffer is a kernel-allocated, CPU-mappable pixel buffer.
type DumbBuffer struct {
	Width, Height uint32
	BPP           uint32
	Handle        uint32
	Pitch         uint32
	Size          uint64
}

var (
	// DRM_IOWR(0xA0, struct drm_mode_card_res)
	ioctlModeResources = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysCardRes{}, ioctlType, 0xA0)

	// DRM_IOWR(0xA1, struct drm_mode_crtc)
	ioctlModeGetCrtc = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysCrtc{}, ioctlType, 0xA1)

	// DRM_IOWR(0xA2, struct drm_mode_crtc)
	ioctlModeSetCrtc = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysCrtc{}, ioctlType, 0xA2)

	// DRM_IOWR(0xA6, struct drm_mode_get_encoder)
	ioctlModeGetEncoder = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysGetEncoder{}, ioctlType, 0xA6)

	// DRM_IOWR(0xA7, struct drm_mode_get_connector)
	ioctlModeGetConnector = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysGetConnector{}, ioctlType, 0xA7)

	// DRM_IOWR(0xAE, struct drm_mode_fb_cmd)
	ioctlModeAddFB = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysFBCmd{}, ioctlType, 0xAE)

	// DRM_IOWR(0xAF, unsigned int)
	ioctlModeRmFB = ioctl.Pointer(ioctl.Read|ioctl.Write, new(uint32), ioctlType, 0xAF)

	// DRM_IOWR(0xB2, struct drm_mode_create_dumb)
	ioctlModeCreateDumb = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysCreateDumb{}, ioctlType, 0xB2)

	// DRM_IOWR(0xB3, struct drm_mode_map_dumb)
	ioctlModeMapDumb = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysMapDumb{}, ioctlType, 0xB3)

	// DRM_IOWR(0xB4, struct drm_mode_destroy_dumb)
	ioctlModeDestroyDumb = ioctl.Pointer(ioctl.Read|ioctl.Write, &sysDestroyDumb{}, ioctlType, 0xB4)
)

// Resources queries the mode-setting object ids of the device. The ioctl is
// issued twice: once to learn the counts, once to fill the id arrays.
func (c *Card) Resources() (*Resources, error) {
	res := &sysCardRes{}
	if err := ioctl.Do(c.fd, ioctlModeResources, res); err != nil {
		return nil, err
	}

	var fbs, crtcs, connectors, encoders []uint32

	if res.countFbs > 0 {
		fbs = make([]uint32, res.countFbs)
		res.fbIDPtr = uint64(uintptr(unsafe.Pointer(&fbs[0])))
	}
	if res.countCrtcs > 0 {
		crtcs = make([]uint32, res.countCrtcs)
		res.crtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcs[0])))
	}
	if res.countConnectors > 0 {
		connectors = make([]uint32, res.countConnectors)
		res.connectorIDPtr = uint64(uintptr(unsafe.Pointer(&connectors[0])))
	}
	if res.countEncoders > 0 {
		encoders = make([]uint32, res.countEncoders)
		res.encoderIDPtr = uint64(uintptr(unsafe.Pointer(&encoders[0])))
	}

	if err := ioctl.Do(c.fd, ioctlModeResources, res); err != nil {
		return nil, err
	}

	return &Resources{
		Fbs:        fbs,
		Crtcs:      crtcs,
		Connectors: connectors,
		Encoders:   encoders,
		MinWidth:   res.minWidth,
		MaxWidth:   res.maxWidth,
		MinHeight:  res.minHeight,
		MaxHeight:  res.maxHeight,
	}, nil
}

// Connector queries a connector without forcing the device to re-probe the
// output, like drmModeGetConnectorCurrent.
func (c *Card) Connector(id uint32) (*Connector, error) {
	conn := &sysGetConnector{connectorID: id}
	if err := ioctl.Do(c.fd, ioctlModeGetConnector, conn); err != nil {
		return nil, err
	}

	var (
		modes    []ModeInfo
		encoders []uint32
	)

	// A second pass fills the mode and encoder arrays. Property arrays are
	// left unset; the catalog has no use for them.
	conn.countProps = 0
	if conn.countModes == 0 {
		conn.countModes = 1
	}
	modes = make([]ModeInfo, conn.countModes)
	conn.modesPtr = uint64(uintptr(unsafe.Pointer(&modes[0])))

	if conn.countEncoders > 0 {
		encoders = make([]uint32, conn.countEncoders)
		conn.encodersPtr = uint64(uintptr(unsafe.Pointer(&encoders[0])))
	}

	if err := ioctl.Do(c.fd, ioctlModeGetConnector, conn); err != nil {
		return nil, err
	}

	ret := &Connector{
		ID:         conn.connectorID,
		EncoderID:  conn.encoderID,
		Type:       conn.connectorType,
		TypeID:     conn.connectorTypeID,
		Connection: conn.connection,
		WidthMM:    conn.mmWidth,
		HeightMM:   conn.mmHeight,
	}
	ret.Modes = make([]ModeInfo, conn.countModes)
	copy(ret.Modes, modes)
	ret.Encoders = make([]uint32, len(encoders))
	copy(ret.Encoders, encoders)

	return ret, nil
}

// Encoder queries one encoder.
func (c *Card) Encoder(id uint32) (*Encoder, error) {
	enc := &sysGetEncoder{id: id}
	if err := ioctl.Do(c.fd, ioctlModeGetEncoder, enc); err != nil {
		return nil, err
	}

	return &Encoder{
		ID:             enc.id,
		Type:           enc.typ,
		CrtcID:         enc.crtcID,
		PossibleCrtcs:  enc.possibleCrtcs,
		PossibleClones: enc.possibleClones,
	}, nil
}

// Crtc queries the current state of one CRTC.
func (c *Card) Crtc(id uint32) (*Crtc, error) {
	crtc := &sysCrtc{id: id}
	if err := ioctl.Do(c.fd, ioctlModeGetCrtc, crtc); err != nil {
		return nil, err
	}

	return &Crtc{
		ID:        crtc.id,
		FbID:      crtc.fbID,
		X:         crtc.x,
		Y:         crtc.y,
		GammaSize: crtc.gammaSize,
		ModeValid: crtc.modeValid != 0,
		Mode:      crtc.mode,
	}, nil
}

// SetCrtc programs a CRTC to scan out framebuffer fbID to the given
// connectors in the given mode. A zero fbID with a nil mode detaches the
// CRTC. Requires the master role.
func (c *Card) SetCrtc(crtcID, fbID uint32, connectors []uint32, mode *ModeInfo) error {
	crtc := &sysCrtc{
		id:   crtcID,
		fbID: fbID,
	}
	if len(connectors) > 0 {
		crtc.setConnectorsPtr = uint64(uintptr(unsafe.Pointer(&connectors[0])))
		crtc.countConnectors = uint32(len(connectors))
	}
	if mode != nil {
		crtc.mode = *mode
		crtc.modeValid = 1
	}
	return ioctl.Do(c.fd, ioctlModeSetCrtc, crtc)
}

// CreateDumb allocates a dumb buffer. The kernel reports back the handle,
// the pitch and the total size in bytes.
func (c *Card) CreateDumb(width, height uint32, bpp uint32) (*DumbBuffer, error) {
	buf := &sysCreateDumb{
		width:  width,
		height: height,
		bpp:    bpp,
	}
	if err := ioctl.Do(c.fd, ioctlModeCreateDumb, buf); err != nil {
		return nil, err
	}

	return &DumbBuffer{
		Width:  buf.width,
		Height: buf.height,
		BPP:    buf.bpp,
		Handle: buf.handle,
		Pitch:  buf.pitch,
		Size:   buf.size,
	}, nil
}

// AddFB registers a buffer object as a framebuffer of the given geometry and
// returns the framebuffer id.
func (c *Card) AddFB(width, height uint32, depth, bpp uint8, pitch, handle uint32) (uint32, error) {
	cmd := &sysFBCmd{
		width:  width,
		height: height,
		pitch:  pitch,
		bpp:    uint32(bpp),
		depth:  uint32(depth),
		handle: handle,
	}
	if err := ioctl.Do(c.fd, ioctlModeAddFB, cmd); err != nil {
		return 0, err
	}
	return cmd.fbID, nil
}

// RmFB removes a framebuffer registration.
func (c *Card) RmFB(id uint32) error {
	return ioctl.Do(c.fd, ioctlModeRmFB, &id)
}

// MapDumb reports the fake mmap offset for a dumb buffer handle.
func (c *Card) MapDumb(handle uint32) (uint64, error) {
	req := &sysMapDumb{handle: handle}
	if err := ioctl.Do(c.fd, ioctlModeMapDumb, req); err != nil {
		return 0, err
	}
	return req.offset, nil
}

// DestroyDumb releases a dumb buffer.
func (c *Card) DestroyDumb(handle uint32) error {
	return ioctl.Do(c.fd, ioctlModeDestroyDumb, &sysDestroyDumb{handle: handle})
}
