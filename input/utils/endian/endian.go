// Package endian resolves the host byte order.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// IsLE returns true if the host architecture is little-endian.
func IsLE() bool {
	x := 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// Native returns the host byte order.
func Native() binary.ByteOrder {
	if IsLE() {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
