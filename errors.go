package drmshow

import "errors"

// Errors. All are terminal for the current operation; none are retried.
var (
	ErrResourceQuery     = errors.New("drmshow: resource query failed")
	ErrConnectorNotFound = errors.New("drmshow: connector not found")
	ErrNoPreferredMode   = errors.New("drmshow: no preferred mode")
	ErrEncoderNotFound   = errors.New("drmshow: encoder not found")
	ErrAlloc             = errors.New("drmshow: dumb buffer allocation failed")
	ErrRegister          = errors.New("drmshow: framebuffer registration failed")
	ErrMap               = errors.New("drmshow: buffer mapping failed")
	ErrMaster            = errors.New("drmshow: master role unavailable")
	ErrPayloadTooLarge   = errors.New("drmshow: payload exceeds buffer size")
)
