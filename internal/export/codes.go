package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/labelsheet/internal/model"
)

// codeModulePx is the width of one Code 128 module in the rendered image.
const codeModulePx = 3

// EncodeQR renders text as a square QR code PNG of size x size px.
func EncodeQR(text string, size int) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// EncodeCode128 renders text as a Code 128 barcode PNG of the given height
// with a quiet zone of ten modules on either side.
func EncodeCode128(text string, height int) ([]byte, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}
	width := bc.Bounds().Dx() * codeModulePx
	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	quiet := 10 * codeModulePx
	canvas := imaging.New(width+2*quiet, height, color.White)
	canvas = imaging.Paste(canvas, scaled, image.Pt(quiet, 0))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode barcode image: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeCode renders the configured code for text, or nil when none is set.
func encodeCode(kind model.CodeKind, text string) ([]byte, error) {
	switch kind {
	case model.CodeQR:
		return EncodeQR(text, 256)
	case model.CodeCode128:
		return EncodeCode128(text, 80)
	default:
		return nil, nil
	}
}
