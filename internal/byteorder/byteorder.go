// Copyright 2011-2025 the ell authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package byteorder decodes the fixed-width little-endian integers that
// back every GVariant basic type and offset-table word.
//
// GVariant is defined to be read with the wire's own byte order, which in
// this library is always little-endian (spec: non-little-endian wire
// support is a non-goal). Reads here never reinterpret host memory: each
// value is assembled byte by byte, matching how the reference
// implementation and every D-Bus wire codec in the wild do it.
package byteorder

// Uint16 decodes a little-endian uint16 from the first two bytes of b.
func Uint16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0]) | uint16(b[1])<<8
}

// Uint32 decodes a little-endian uint32 from the first four bytes of b.
func Uint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Uint64 decodes a little-endian uint64 from the first eight bytes of b.
func Uint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// Uint decodes a little-endian unsigned integer of width bytes (1, 2, 4, or
// 8) from the front of b. width is the offset-table word size W, which is
// recomputed per frame (see gvariant's offsetWidth) and must never be
// assumed by a caller ahead of time.
func Uint(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(Uint16(b))
	case 4:
		return uint64(Uint32(b))
	case 8:
		return Uint64(b)
	default:
		panic("byteorder: invalid offset width")
	}
}
