package drmshow

import "fmt"

// Report is a read-only snapshot of the mode-setting objects of a device,
// used by the listing front-end.
type Report struct {
	Connectors   []ConnectorInfo
	Framebuffers []uint32
	Crtcs        []uint32
	Encoders     []uint32
}

// Resources queries the device for a Report.
func Resources(card Card) (*Report, error) {
	res, err := card.Resources()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceQuery, err)
	}

	connectors, err := ListConnectors(card)
	if err != nil {
		return nil, err
	}

	return &Report{
		Connectors:   connectors,
		Framebuffers: res.Fbs,
		Crtcs:        res.Crtcs,
		Encoders:     res.Encoders,
	}, nil
}
