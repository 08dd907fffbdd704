// Package qr renders verification links as QR code images.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ImageSize is the edge length in pixels of generated QR images.
const ImageSize = 300

// VerificationURL builds the public verification link for a code.
func VerificationURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + code
}

// PNG renders the verification link for a code as a PNG image. High error
// correction keeps the code scannable when printed on certificates.
func PNG(baseURL, code string) ([]byte, error) {
	png, err := qrcode.Encode(VerificationURL(baseURL, code), qrcode.High, ImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
