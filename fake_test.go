package drmshow

import (
	"errors"

	"github.com/vidmode/drmshow/drm"
)

var errInjected = errors.New("injected failure")

type crtcCall struct {
	crtcID, fbID uint32
	hasMode      bool
	masterHeld   bool
}

// fakeCard is an in-memory Card with failure injection and call accounting.
type fakeCard struct {
	connectors []*drm.Connector
	encoders   map[uint32]*drm.Encoder
	crtcs      map[uint32]*drm.Crtc
	fbs        []uint32

	noDumb         bool
	failResources  bool
	failConnector  map[uint32]bool
	failEncoder    bool
	failCrtc       bool
	failCreateDumb bool
	failAddFB      bool
	failMapDumb    bool
	failMmap       bool
	failSetMaster  bool
	failSetCrtc    bool

	nextHandle uint32
	nextFB     uint32
	buffers    map[uint32]bool // live dumb buffer handles
	regs       map[uint32]bool // live framebuffer registrations
	mapped     int             // outstanding mappings
	master     bool

	masterSets  int
	masterDrops int
	destroys    int
	rmfbs       int
	munmaps     int
	setCrtcs    []crtcCall
	bound       map[uint32]uint32 // crtc id -> framebuffer id
}

func mkMode(w, h uint16, preferred bool) drm.ModeInfo {
	mode := drm.ModeInfo{
		Hdisplay: w,
		Vdisplay: h,
		Vrefresh: 60,
		Type:     drm.ModeTypeDriver,
	}
	if preferred {
		mode.Type |= drm.ModeTypePreferred
	}
	return mode
}

// newFakeCard builds a device with a single HDMI-A-1 connector whose
// preferred mode is 1920x1080 and whose CRTC currently scans out
// framebuffer 7.
func newFakeCard() *fakeCard {
	f := &fakeCard{
		connectors: []*drm.Connector{{
			ID:         31,
			EncoderID:  30,
			Type:       drm.ConnectorHDMIA,
			TypeID:     1,
			Connection: drm.Connected,
			Modes: []drm.ModeInfo{
				mkMode(1280, 720, false),
				mkMode(1920, 1080, true),
			},
			Encoders: []uint32{30},
		}},
		encoders: map[uint32]*drm.Encoder{
			30: {ID: 30, CrtcID: 41},
		},
		crtcs: map[uint32]*drm.Crtc{
			41: {ID: 41, FbID: 7, ModeValid: true, Mode: mkMode(1920, 1080, true)},
		},
		fbs:        []uint32{7},
		nextHandle: 100,
		nextFB:     200,
		buffers:    make(map[uint32]bool),
		regs:       make(map[uint32]bool),
		bound:      map[uint32]uint32{41: 7},
	}
	return f
}

func (f *fakeCard) SupportsDumbBuffers() bool {
	return !f.noDumb
}

func (f *fakeCard) Resources() (*drm.Resources, error) {
	if f.failResources {
		return nil, errInjected
	}
	res := &drm.Resources{Fbs: f.fbs}
	for _, conn := range f.connectors {
		res.Connectors = append(res.Connectors, conn.ID)
	}
	for id := range f.encoders {
		res.Encoders = append(res.Encoders, id)
	}
	for id := range f.crtcs {
		res.Crtcs = append(res.Crtcs, id)
	}
	return res, nil
}

func (f *fakeCard) Connector(id uint32) (*drm.Connector, error) {
	if f.failConnector[id] {
		return nil, errInjected
	}
	for _, conn := range f.connectors {
		if conn.ID == id {
			return conn, nil
		}
	}
	return nil, errors.New("no such connector")
}

func (f *fakeCard) Encoder(id uint32) (*drm.Encoder, error) {
	if f.failEncoder {
		return nil, errInjected
	}
	enc, ok := f.encoders[id]
	if !ok {
		return nil, errors.New("no such encoder")
	}
	return enc, nil
}

func (f *fakeCard) Crtc(id uint32) (*drm.Crtc, error) {
	if f.failCrtc {
		return nil, errInjected
	}
	crtc, ok := f.crtcs[id]
	if !ok {
		return nil, errors.New("no such crtc")
	}
	snapshot := *crtc
	return &snapshot, nil
}

func (f *fakeCard) SetCrtc(crtcID, fbID uint32, connectors []uint32, mode *drm.ModeInfo) error {
	call := crtcCall{
		crtcID:     crtcID,
		fbID:       fbID,
		hasMode:    mode != nil,
		masterHeld: f.master,
	}
	f.setCrtcs = append(f.setCrtcs, call)
	if f.failSetCrtc {
		return errInjected
	}
	if !f.master {
		return errors.New("not master")
	}
	f.bound[crtcID] = fbID
	return nil
}

func (f *fakeCard) CreateDumb(width, height, bpp uint32) (*drm.DumbBuffer, error) {
	if f.failCreateDumb {
		return nil, errInjected
	}
	f.nextHandle++
	handle := f.nextHandle
	f.buffers[handle] = true
	pitch := width * bpp / 8
	return &drm.DumbBuffer{
		Width:  width,
		Height: height,
		BPP:    bpp,
		Handle: handle,
		Pitch:  pitch,
		Size:   uint64(pitch) * uint64(height),
	}, nil
}

func (f *fakeCard) AddFB(width, height uint32, depth, bpp uint8, pitch, handle uint32) (uint32, error) {
	if f.failAddFB {
		return 0, errInjected
	}
	if !f.buffers[handle] {
		return 0, errors.New("no such handle")
	}
	f.nextFB++
	f.regs[f.nextFB] = true
	return f.nextFB, nil
}

func (f *fakeCard) RmFB(id uint32) error {
	if !f.regs[id] {
		return errors.New("no such framebuffer")
	}
	delete(f.regs, id)
	f.rmfbs++
	return nil
}

func (f *fakeCard) MapDumb(handle uint32) (uint64, error) {
	if f.failMapDumb {
		return 0, errInjected
	}
	if !f.buffers[handle] {
		return 0, errors.New("no such handle")
	}
	return uint64(handle) << 12, nil
}

func (f *fakeCard) DestroyDumb(handle uint32) error {
	if !f.buffers[handle] {
		return errors.New("no such handle")
	}
	delete(f.buffers, handle)
	f.destroys++
	return nil
}

func (f *fakeCard) Mmap(offset, size uint64) ([]byte, error) {
	if f.failMmap {
		return nil, errInjected
	}
	f.mapped++
	return make([]byte, size), nil
}

func (f *fakeCard) Munmap(data []byte) error {
	f.mapped--
	f.munmaps++
	return nil
}

func (f *fakeCard) SetMaster() error {
	if f.failSetMaster {
		return errInjected
	}
	f.master = true
	f.masterSets++
	return nil
}

func (f *fakeCard) DropMaster() error {
	f.master = false
	f.masterDrops++
	return nil
}
