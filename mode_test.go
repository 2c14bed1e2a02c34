package drmshow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidmode/drmshow/drm"
)

func TestPreferredMode(t *testing.T) {
	conn := &drm.Connector{
		Type:   drm.ConnectorHDMIA,
		TypeID: 1,
		Modes: []drm.ModeInfo{
			mkMode(1280, 720, false),
			mkMode(1920, 1080, true),
			mkMode(3840, 2160, false),
		},
	}

	mode, err := PreferredMode(conn)
	require.NoError(t, err)
	assert.Equal(t, uint16(1920), mode.Hdisplay)
	assert.Equal(t, uint16(1080), mode.Vdisplay)
}

func TestPreferredModeNoneFlagged(t *testing.T) {
	conn := &drm.Connector{
		Type:   drm.ConnectorHDMIA,
		TypeID: 1,
		Modes: []drm.ModeInfo{
			mkMode(1280, 720, false),
		},
	}

	_, err := PreferredMode(conn)
	assert.ErrorIs(t, err, ErrNoPreferredMode)
}

// With more than one preferred mode the last one in iteration order wins;
// there is no stable tie-break.
func TestPreferredModeLastWins(t *testing.T) {
	conn := &drm.Connector{
		Type:   drm.ConnectorHDMIA,
		TypeID: 1,
		Modes: []drm.ModeInfo{
			mkMode(1280, 720, true),
			mkMode(1920, 1080, true),
		},
	}

	mode, err := PreferredMode(conn)
	require.NoError(t, err)
	assert.Equal(t, uint16(1920), mode.Hdisplay)
}

func TestPreferredResolution(t *testing.T) {
	card := newFakeCard()

	width, height, err := PreferredResolution(card, "HDMI-A-1")
	require.NoError(t, err)
	assert.Equal(t, 1920, width)
	assert.Equal(t, 1080, height)

	_, _, err = PreferredResolution(card, "eDP-1")
	assert.ErrorIs(t, err, ErrConnectorNotFound)
}
