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
	"go.ell.dev/ell/internal/assert"
	"go.ell.dev/ell/internal/byteorder"
)

// offsetWidth computes W, the width in bytes of one offset-table word, for
// a frame of length frameLen, matching gvariant-util.c's
// `gvariant_type_info_query`/offset-size rule. It must be recomputed per
// frame: a caller may not assume 1, 2, 4, or 8 ahead of having the frame's
// actual length.
func offsetWidth(frameLen int) int {
	switch {
	case frameLen <= 0xFF:
		return 1
	case frameLen <= 0xFFFF:
		return 2
	case frameLen <= 0xFFFF_FFFF:
		return 4
	default:
		return 8
	}
}

// countTrailingVariable counts how many top-level complete types in sig
// are variable-size and are *not* the last one. The struct/dict-entry
// offset table holds exactly this many reverse-stored words; the last
// variable child's end is implicit, the same convention
// `gvariant_iter_init_internal` uses to size a struct's offset table.
func countTrailingVariable(sig string) (total, variableNonLast int, err error) {
	// Two passes over the signature, neither allocating: the first just
	// counts top-level children, the second counts which of the
	// non-last ones are variable-size. A container is entered rarely
	// enough next to the per-item decode path that this isn't worth
	// caching, but it still shouldn't allocate.
	for cur := 0; cur < len(sig); total++ {
		end, _, _, _, err := scanType(sig, cur, 0)
		if err != nil {
			return 0, 0, err
		}
		cur = end
	}

	i := 0
	for cur := 0; cur < len(sig); i++ {
		end, _, fixed, _, err := scanType(sig, cur, 0)
		if err != nil {
			return 0, 0, err
		}
		if !fixed && i != total-1 {
			variableNonLast++
		}
		cur = end
	}
	assert.Assert(i == total, "countTrailingVariable: inconsistent child count (%d vs %d)", i, total)
	return total, variableNonLast, nil
}

// readOffset reads the W-byte little-endian word at byte index at within
// data, returning TruncatedFrame if it doesn't fit.
func readOffset(data []byte, at, width int) (int, error) {
	if at < 0 || at+width > len(data) {
		return 0, newError(TruncatedFrame, at, "offset table word out of range")
	}
	return int(byteorder.Uint(data[at:at+width], width)), nil
}
