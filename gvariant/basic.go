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

package gvariant

import (
	"bytes"
	"math"
	"unsafe"

	"go.ell.dev/ell/internal/byteorder"
)

// nextBasic checks that the reader's next type is expected, then returns
// the borrowed byte extent backing it.
func (r *Reader) nextBasic(expected byte) ([]byte, error) {
	if r.container != Array && r.sigPos >= len(r.sig) {
		return nil, newError(Overrun, r.pos, "no more children")
	}
	if r.container == Array && r.pos >= r.limit {
		return nil, newError(Overrun, r.pos, "no more array elements")
	}
	if r.sig[r.sigPos] != expected {
		return nil, newError(TypeMismatch, r.pos, "next type is not "+string(expected))
	}
	start, size, err := r.nextItem()
	if err != nil {
		return nil, err
	}
	return r.data[start : start+size], nil
}

// NextBool extracts a 'b' boolean: any non-zero byte is true.
func (r *Reader) NextBool() (bool, error) {
	b, err := r.nextBasic('b')
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// NextByte extracts a 'y' unsigned byte.
func (r *Reader) NextByte() (byte, error) {
	b, err := r.nextBasic('y')
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// NextInt16 extracts an 'n' signed 16-bit integer.
func (r *Reader) NextInt16() (int16, error) {
	b, err := r.nextBasic('n')
	if err != nil {
		return 0, err
	}
	return int16(byteorder.Uint16(b)), nil
}

// NextUint16 extracts a 'q' unsigned 16-bit integer.
func (r *Reader) NextUint16() (uint16, error) {
	b, err := r.nextBasic('q')
	if err != nil {
		return 0, err
	}
	return byteorder.Uint16(b), nil
}

// NextInt32 extracts an 'i' signed 32-bit integer.
func (r *Reader) NextInt32() (int32, error) {
	b, err := r.nextBasic('i')
	if err != nil {
		return 0, err
	}
	return int32(byteorder.Uint32(b)), nil
}

// NextUint32 extracts a 'u' unsigned 32-bit integer.
func (r *Reader) NextUint32() (uint32, error) {
	b, err := r.nextBasic('u')
	if err != nil {
		return 0, err
	}
	return byteorder.Uint32(b), nil
}

// NextHandle extracts an 'h' D-Bus handle index. A handle is wire-identical
// to a plain 'i': it is a raw index into a side-channel file-descriptor
// array that the D-Bus transport owns and this reader never sees, so
// callers that need an actual file descriptor must resolve it themselves
// against that transport.
func (r *Reader) NextHandle() (int32, error) {
	b, err := r.nextBasic('h')
	if err != nil {
		return 0, err
	}
	return int32(byteorder.Uint32(b)), nil
}

// NextInt64 extracts an 'x' signed 64-bit integer.
func (r *Reader) NextInt64() (int64, error) {
	b, err := r.nextBasic('x')
	if err != nil {
		return 0, err
	}
	return int64(byteorder.Uint64(b)), nil
}

// NextUint64 extracts a 't' unsigned 64-bit integer.
func (r *Reader) NextUint64() (uint64, error) {
	b, err := r.nextBasic('t')
	if err != nil {
		return 0, err
	}
	return byteorder.Uint64(b), nil
}

// NextFloat64 extracts a 'd' IEEE-754 double. ELL's variadic
// l_dbus_message_iter_next_entry reads the same eight bytes as a raw u64
// and lets the caller decide how to interpret them; this reader exposes
// the typed value instead, matching how Go's encoding/binary family
// exposes typed reads rather than raw words.
func (r *Reader) NextFloat64() (float64, error) {
	b, err := r.nextBasic('d')
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(byteorder.Uint64(b)), nil
}

// nextCString implements the shared tail of 's', 'o', and 'g': a
// NUL-terminated, byte-aligned string borrowed from the frame.
func (r *Reader) nextCString(expected byte) (string, error) {
	saved := *r
	b, err := r.nextBasic(expected)
	if err != nil {
		return "", err
	}
	nul := bytes.IndexByte(b, 0)
	if nul < 0 {
		*r = saved
		return "", newError(TruncatedFrame, r.pos, "string is missing its NUL terminator")
	}
	return borrowString(b[:nul]), nil
}

// NextString extracts an 's' UTF-8 string, borrowed from the frame.
func (r *Reader) NextString() (string, error) { return r.nextCString('s') }

// NextObjectPath extracts an 'o' object path, borrowed from the frame.
// Object-path syntax validation (the leading '/', no empty segments) is
// left to the D-Bus transport layer.
func (r *Reader) NextObjectPath() (string, error) { return r.nextCString('o') }

// NextSignature extracts a 'g' signature string, borrowed from the frame.
func (r *Reader) NextSignature() (string, error) { return r.nextCString('g') }

// borrowString converts a byte extent already known to lie inside the
// reader's frame into a string without copying it. The result is only
// valid for as long as the caller-supplied frame buffer is: it is a
// borrow, not an owned copy.
func borrowString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
