package drmshow

import (
	"fmt"

	"github.com/vidmode/drmshow/drm"
)

// PreferredMode picks the display mode the device flagged as preferred.
// When more than one mode carries the flag, the last one in the connector's
// mode list wins; the kernel defines no stable tie-break and neither do we.
func PreferredMode(conn *drm.Connector) (drm.ModeInfo, error) {
	var preferred *drm.ModeInfo
	for i := range conn.Modes {
		if conn.Modes[i].Preferred() {
			preferred = &conn.Modes[i]
		}
	}
	if preferred == nil {
		return drm.ModeInfo{}, fmt.Errorf("%w: connector %s", ErrNoPreferredMode, conn.Name())
	}
	return *preferred, nil
}

// PreferredResolution reports the preferred mode resolution of the named
// connector.
func PreferredResolution(card Card, name string) (width, height int, err error) {
	conn, err := FindConnector(card, name)
	if err != nil {
		return 0, 0, err
	}
	mode, err := PreferredMode(conn)
	if err != nil {
		return 0, 0, err
	}
	return int(mode.Hdisplay), int(mode.Vdisplay), nil
}
