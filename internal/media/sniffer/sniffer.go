package sniffer

import (
	"bytes"
	"errors"
)

// Evidence uploads are restricted to a small set of content types. The
// declared Content-Type header is advisory; the magic bytes decide.
type Type string

const (
	TypeJPEG Type = "jpeg"
	TypePNG  Type = "png"
	TypeWebP Type = "webp"
	TypePDF  Type = "pdf"
)

type Result struct {
	Type Type
	MIME string
}

var ErrUnsupportedType = errors.New("unsupported evidence type")

var (
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicPNG  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	magicRIFF = []byte("RIFF")
	magicWebP = []byte("WEBP")
	magicPDF  = []byte("%PDF-")
)

// DetectHead inspects the first bytes of an upload.
func DetectHead(head []byte) (Result, error) {
	switch {
	case bytes.HasPrefix(head, magicJPEG):
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	case bytes.HasPrefix(head, magicPNG):
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	case bytes.HasPrefix(head, magicRIFF) && len(head) >= 12 && bytes.Equal(head[8:12], magicWebP):
		return Result{Type: TypeWebP, MIME: "image/webp"}, nil
	case bytes.HasPrefix(head, magicPDF):
		return Result{Type: TypePDF, MIME: "application/pdf"}, nil
	}
	return Result{}, ErrUnsupportedType
}
