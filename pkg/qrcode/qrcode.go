package qrcode

import (
	"encoding/base64"
	"errors"
	"os"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"

	"github.com/dmitrymomot/otpmirror/pkg/otpauth"
)

const defaultSize = 256

// Generate renders content as a PNG of size×size pixels. A non-positive size
// falls back to 256.
func Generate(content string, size int) ([]byte, error) {
	q, err := encode(content)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI for <img src>.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with half-block characters for printing to a
// console. invert swaps dark and light modules for dark backgrounds.
func Terminal(content string, invert bool) (string, error) {
	q, err := encode(content)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(invert), nil
}

// ForKey renders the otpauth URI of k, which authenticator apps can scan to
// import the credential.
func ForKey(k otpauth.Key, size int) ([]byte, error) {
	return Generate(otpauth.Build(k), size)
}

// WriteFile writes the PNG for content to path with owner-only permissions,
// since exported codes carry the secret.
func WriteFile(path, content string, size int) error {
	png, err := Generate(content, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	return nil
}

// encode uses medium error correction, which keeps typical otpauth URIs
// scannable at small sizes.
func encode(content string) (*skipqrcode.QRCode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return q, nil
}
