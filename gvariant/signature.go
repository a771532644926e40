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

// MaxDepth bounds how deeply a signature may nest containers. Signatures
// come from an untrusted frame, so validation must terminate on strings an
// attacker crafted to blow the stack; ELL's gvariant-util.c accepts whatever
// a validated D-Bus message carries and has no such limit, but a signature
// walked directly off the wire, without a transport that already validated
// it, needs one.
const MaxDepth = 255

// alignments mirrors the GVariant type table: each basic type letter maps to
// its required byte alignment. Fixed-size basic types happen to have
// width == alignment, so this table also gives their fixed size.
var alignments = [256]uint8{
	'b': 1, 'y': 1,
	'n': 2, 'q': 2,
	'i': 4, 'u': 4, 'h': 4,
	'x': 8, 't': 8, 'd': 8,
	's': 1, 'o': 1, 'g': 1,
	'v': 8,
}

// isSimple reports whether c is a basic (non-container) type letter, the
// only kind of type legal as a dict-entry key.
func isSimple(c byte) bool {
	switch c {
	case 'b', 'y', 'n', 'q', 'i', 'u', 'h', 'x', 't', 'd', 's', 'o', 'g':
		return true
	default:
		return false
	}
}

// typeDepthError is returned when a signature nests more than MaxDepth
// containers deep; it is reported to the caller as InvalidSignature, since
// from the caller's point of view an over-deep signature is simply not one
// this reader accepts.
func typeDepthError(pos int) error {
	return newError(InvalidSignature, pos, "signature nests too deeply")
}

// scanType parses the single complete type at sig[pos], returning the index
// just past it, its alignment, whether it is fixed-size, and — when fixed —
// its size in bytes including any trailing padding a containing struct would
// need to apply. This is the Go counterpart of gvariant-util.c's signature
// walk in `_gvariant_valid_signature`/`signature_from_ptr`.
//
// depth counts container nesting so far; it is checked against MaxDepth on
// every recursive descent into 'a', '(', and '{'.
func scanType(sig string, pos, depth int) (end int, align uint8, fixed bool, size int, err error) {
	if pos >= len(sig) {
		return 0, 0, false, 0, newError(InvalidSignature, pos, "truncated type")
	}
	if depth > MaxDepth {
		return 0, 0, false, 0, typeDepthError(pos)
	}

	c := sig[pos]
	switch {
	case alignments[c] != 0:
		a := alignments[c]
		isFixed := c != 's' && c != 'o' && c != 'g' && c != 'v'
		w := 0
		if isFixed {
			w = int(a)
		}
		return pos + 1, a, isFixed, w, nil

	case c == 'a':
		childEnd, childAlign, _, _, err := scanType(sig, pos+1, depth+1)
		if err != nil {
			return 0, 0, false, 0, err
		}
		return childEnd, childAlign, false, 0, nil

	case c == '(':
		if pos+1 < len(sig) && sig[pos+1] == ')' {
			return pos + 2, 1, true, 1, nil
		}
		end, align, fixed, size, _, err = scanChildren(sig, pos+1, depth+1, ')')
		return end, align, fixed, size, err

	case c == '{':
		if pos+1 >= len(sig) {
			return 0, 0, false, 0, newError(InvalidSignature, pos, "truncated dict entry")
		}
		if !isSimple(sig[pos+1]) {
			return 0, 0, false, 0, newError(InvalidSignature, pos+1, "dict entry key must be a simple type")
		}
		keyEnd, keyAlign, keyFixed, keyWidth, err := scanType(sig, pos+1, depth+1)
		if err != nil {
			return 0, 0, false, 0, err
		}
		if keyEnd >= len(sig) {
			return 0, 0, false, 0, newError(InvalidSignature, keyEnd, "truncated dict entry")
		}
		valEnd, valAlign, valFixed, valWidth, err := scanType(sig, keyEnd, depth+1)
		if err != nil {
			return 0, 0, false, 0, err
		}
		if valEnd >= len(sig) || sig[valEnd] != '}' {
			return 0, 0, false, 0, newError(InvalidSignature, valEnd, "dict entry missing closing '}'")
		}
		align := keyAlign
		if valAlign > align {
			align = valAlign
		}
		fixed = keyFixed && valFixed
		size = 0
		if fixed {
			size = alignUp(keyWidth, valAlign) + valWidth
			size = alignUp(size, align)
		}
		return valEnd + 1, align, fixed, size, nil

	default:
		return 0, 0, false, 0, newError(InvalidSignature, pos, "unrecognized type character")
	}
}

// scanChildren walks a sequence of complete types starting at pos, either
// to the matching stop byte (')' for structs) or — when stop is 0 — to the
// end of sig (used for the top-level "is this whole string a sequence of
// complete types" queries).
//
// This implements both a struct's member loop and, when treated as a
// sequence rather than a parenthesized type, the same walk GVariant's
// num_children/get_alignment/get_fixed_size queries do over a bare
// signature: align the running size to each child's alignment before
// adding it, then pad the total to the sequence's own max alignment.
func scanChildren(sig string, pos, depth int, stop byte) (end int, align uint8, fixed bool, size, n int, err error) {
	align = 1
	fixed = true
	cur := pos
	for {
		if stop != 0 && cur < len(sig) && sig[cur] == stop {
			cur++
			break
		}
		if cur >= len(sig) {
			if stop != 0 {
				return 0, 0, false, 0, 0, newError(InvalidSignature, cur, "unterminated struct")
			}
			break
		}
		childEnd, childAlign, childFixed, childWidth, err := scanType(sig, cur, depth)
		if err != nil {
			return 0, 0, false, 0, 0, err
		}
		if childAlign > align {
			align = childAlign
		}
		if fixed {
			size = alignUp(size, childAlign) + childWidth
		}
		fixed = fixed && childFixed
		n++
		cur = childEnd
	}
	if fixed {
		size = alignUp(size, align)
	} else {
		size = 0
	}
	return cur, align, fixed, size, n, nil
}

func alignUp(n int, align uint8) int {
	a := int(align)
	return (n + a - 1) &^ (a - 1)
}

// Valid reports whether sig is a non-empty sequence of complete types
// drawn from the GVariant type alphabet this reader supports, the same
// check as gvariant-util.c's `_gvariant_valid_signature`. The alphabet is
// the basic letters b y n q i u h x t d s o g, the variant v, arrays a,
// structs ( ) and dict entries { }; any other character is rejected.
func Valid(sig string) bool {
	_, _, _, _, err := signatureInfo(sig)
	return err == nil
}

// NumChildren counts the top-level complete types in sig, or returns -1 if
// sig is not a valid signature.
func NumChildren(sig string) int {
	n, _, _, _, err := signatureInfo(sig)
	if err != nil {
		return -1
	}
	return n
}

// Alignment returns the alignment of sig: the max alignment over its
// top-level children. ok is false if sig is not a valid signature.
func Alignment(sig string) (align uint8, ok bool) {
	_, align, _, _, err := signatureInfo(sig)
	return align, err == nil
}

// IsFixed reports whether sig contains no variable-size character
// (s, o, g, a, v), transitively. ok is false if sig is not a valid
// signature.
func IsFixed(sig string) (fixed bool, ok bool) {
	_, _, fixed, _, err := signatureInfo(sig)
	return fixed, err == nil
}

// FixedSize computes the total aligned size of sig assuming it is fixed,
// mirroring gvariant-util.c's `get_fixed_size`. It returns 0 if sig is
// variable or invalid.
func FixedSize(sig string) int {
	_, _, fixed, size, err := signatureInfo(sig)
	if err != nil || !fixed {
		return 0
	}
	return size
}

// signatureInfo validates sig as a complete, non-empty sequence of types
// and reports its child count, alignment, fixedness and size in one pass.
func signatureInfo(sig string) (n int, align uint8, fixed bool, size int, err error) {
	_, align, fixed, size, n, err = scanChildren(sig, 0, 0, 0)
	if err != nil {
		return 0, 0, false, 0, err
	}
	if n == 0 {
		return 0, 0, false, 0, newError(InvalidSignature, 0, "empty signature")
	}
	return n, align, fixed, size, nil
}
