package sniffer

import (
	"errors"
	"testing"
)

func TestDetectHead(t *testing.T) {
	webp := append([]byte("RIFF"), 0, 0, 0, 0)
	webp = append(webp, []byte("WEBP")...)

	tests := []struct {
		name string
		head []byte
		want Type
		mime string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, TypeJPEG, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, TypePNG, "image/png"},
		{"webp", webp, TypeWebP, "image/webp"},
		{"pdf", []byte("%PDF-1.7 rest"), TypePDF, "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DetectHead(tt.head)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if result.Type != tt.want {
				t.Errorf("type = %q, want %q", result.Type, tt.want)
			}
			if result.MIME != tt.mime {
				t.Errorf("mime = %q, want %q", result.MIME, tt.mime)
			}
		})
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte(""),
		[]byte("GIF89a"),
		[]byte("<svg xmlns="),
		[]byte("RIFF1234WAVE"), // RIFF but not WebP
		[]byte("#!/bin/sh"),
	} {
		if _, err := DetectHead(head); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("DetectHead(%q) err = %v, want ErrUnsupportedType", head, err)
		}
	}
}
