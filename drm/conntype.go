package drm

import "fmt"

// Connector types, from <drm/drm_mode.h>.
const (
	ConnectorUnknown = iota
	ConnectorVGA
	ConnectorDVII
	ConnectorDVID
	ConnectorDVIA
	ConnectorComposite
	ConnectorSVideo
	ConnectorLVDS
	ConnectorComponent
	Connector9PinDIN
	ConnectorDisplayPort
	ConnectorHDMIA
	ConnectorHDMIB
	ConnectorTV
	ConnectorEDP
	ConnectorVirtual
	ConnectorDSI
	ConnectorDPI
)

// connectorTypeNames is ordinal-indexed by connector type.
var connectorTypeNames = []string{
	ConnectorUnknown:     "unknown",
	ConnectorVGA:         "VGA",
	ConnectorDVII:        "DVI-I",
	ConnectorDVID:        "DVI-D",
	ConnectorDVIA:        "DVI-A",
	ConnectorComposite:   "composite",
	ConnectorSVideo:      "s-video",
	ConnectorLVDS:        "LVDS",
	ConnectorComponent:   "component",
	Connector9PinDIN:     "9-pin DIN",
	ConnectorDisplayPort: "DP",
	ConnectorHDMIA:       "HDMI-A",
	ConnectorHDMIB:       "HDMI-B",
	ConnectorTV:          "TV",
	ConnectorEDP:         "eDP",
	ConnectorVirtual:     "Virtual",
	ConnectorDSI:         "DSI",
	ConnectorDPI:         "DPI",
}

// ConnectorTypeName resolves a connector type ordinal to its name.
// Out-of-range ordinals yield "INVALID", which callers must accept as a
// valid (if uninformative) name.
func ConnectorTypeName(typ uint32) string {
	if typ < uint32(len(connectorTypeNames)) {
		return connectorTypeNames[typ]
	}
	return "INVALID"
}

// ConnectorName builds the canonical "{type}-{typeindex}" name used to
// address a port, e.g. "HDMI-A-1".
func ConnectorName(typ, typeID uint32) string {
	return fmt.Sprintf("%s-%d", ConnectorTypeName(typ), typeID)
}
