package qrcode

import "errors"

var (
	ErrEmptyContent           = errors.New("qrcode: content cannot be empty")
	ErrFailedToGenerateQRCode = errors.New("qrcode: failed to generate QR code")
	ErrFailedToWriteFile      = errors.New("qrcode: failed to write image file")
)
