package drmshow

import (
	"fmt"

	"github.com/vidmode/drmshow/drm"
)

// ConnectorInfo is one entry of the connector catalog.
type ConnectorInfo struct {
	// ID is the connector object id.
	ID uint32

	// Name is the canonical "{type}-{typeindex}" port name.
	Name string

	// EncoderID is the currently attached encoder, 0 if none.
	EncoderID uint32

	// CrtcID is the CRTC driven by the encoder, 0 when unresolvable.
	CrtcID uint32
}

// ListConnectors enumerates all connectors of the device, regardless of
// connection state. Connectors that fail to query are skipped so a single
// flaky port does not abort the whole listing.
func ListConnectors(card Card) ([]ConnectorInfo, error) {
	res, err := card.Resources()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceQuery, err)
	}

	infos := make([]ConnectorInfo, 0, len(res.Connectors))
	for _, id := range res.Connectors {
		conn, err := card.Connector(id)
		if err != nil {
			continue
		}

		info := ConnectorInfo{
			ID:        conn.ID,
			Name:      conn.Name(),
			EncoderID: conn.EncoderID,
		}
		if enc, err := card.Encoder(conn.EncoderID); err == nil {
			info.CrtcID = enc.CrtcID
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// FindConnector returns the first connector whose "{type}-{typeindex}" name
// matches name exactly.
func FindConnector(card Card, name string) (*drm.Connector, error) {
	res, err := card.Resources()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceQuery, err)
	}

	for _, id := range res.Connectors {
		conn, err := card.Connector(id)
		if err != nil {
			continue
		}
		if conn.Name() == name {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrConnectorNotFound, name)
}
