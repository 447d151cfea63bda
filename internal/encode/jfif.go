// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package encode

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	markerSOI  = 0xD8
	markerAPP0 = 0xE0

	densityUnitsDPI = 1
)

var jfifID = []byte("JFIF\x00")

// SetDensity sets the JFIF pixel density of a JPEG stream to x by y dots per
// inch. An existing JFIF APP0 segment is patched in place; otherwise a new
// one is inserted directly after SOI.
func SetDensity(data []byte, x, y uint16) ([]byte, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, errors.New("jfif: missing SOI marker")
	}

	if off := findJFIF(data); off >= 0 {
		out := append([]byte(nil), data...)
		// off points at the segment marker: FF E0 len(2) "JFIF\0" version(2) units x y
		out[off+11] = densityUnitsDPI
		binary.BigEndian.PutUint16(out[off+12:], x)
		binary.BigEndian.PutUint16(out[off+14:], y)
		return out, nil
	}

	var b bytes.Buffer
	b.Grow(len(data) + 18)
	b.Write(data[:2])
	b.Write(app0Segment(x, y))
	b.Write(data[2:])
	return b.Bytes(), nil
}

// Density returns the JFIF density units and values of a JPEG stream.
func Density(data []byte) (units uint8, x, y uint16, err error) {
	off := findJFIF(data)
	if off < 0 {
		return 0, 0, 0, errors.New("jfif: no APP0 segment")
	}
	return data[off+11], binary.BigEndian.Uint16(data[off+12:]), binary.BigEndian.Uint16(data[off+14:]), nil
}

// findJFIF returns the offset of the JFIF APP0 marker among the segments
// preceding the image data, or -1.
func findJFIF(data []byte) int {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return -1
		}
		marker := data[i+1]
		if marker == 0xFF {
			i++
			continue
		}
		// Only APPn and COM segments may precede the JFIF header we care about.
		if (marker < 0xE0 || marker > 0xEF) && marker != 0xFE {
			return -1
		}
		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			return -1
		}
		if marker == markerAPP0 && length >= 16 && bytes.Equal(data[i+4:i+9], jfifID) {
			return i
		}
		i += 2 + length
	}
	return -1
}

// app0Segment builds a JFIF 1.01 APP0 segment with no thumbnail.
func app0Segment(x, y uint16) []byte {
	seg := make([]byte, 18)
	seg[0], seg[1] = 0xFF, markerAPP0
	binary.BigEndian.PutUint16(seg[2:], 16)
	copy(seg[4:], jfifID)
	seg[9], seg[10] = 1, 1
	seg[11] = densityUnitsDPI
	binary.BigEndian.PutUint16(seg[12:], x)
	binary.BigEndian.PutUint16(seg[14:], y)
	return seg
}
