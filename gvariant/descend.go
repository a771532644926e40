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

import "bytes"

// maxVariantSignature is the largest signature GVariant allows trailing a
// variant's value: the D-Bus wire format caps it at 255 bytes so the
// trailing signature can itself be framed like a 'g' value.
const maxVariantSignature = 255

// EnterStruct descends into the reader's next child, which must be a
// struct '(' or dict entry '{', mirroring gvariant-util.c's
// `_gvariant_iter_enter_struct`. The returned Reader exclusively borrows
// from r's frame; r must not be advanced again while the child is in use.
func (r *Reader) EnterStruct() (Reader, error) {
	if r.container != Array && r.sigPos >= len(r.sig) {
		return Reader{}, newError(Overrun, r.pos, "no more children")
	}
	if r.container == Array && r.pos >= r.limit {
		return Reader{}, newError(Overrun, r.pos, "no more array elements")
	}

	c := r.sig[r.sigPos]
	if c != '(' && c != '{' {
		return Reader{}, newError(TypeMismatch, r.pos, "next type is not a struct or dict entry")
	}

	childSigStart := r.sigPos
	isArray := r.container == Array
	parentSig := r.sig

	next := *r
	start, size, err := next.nextItem()
	if err != nil {
		return Reader{}, err
	}

	var inner string
	if isArray {
		inner = parentSig[1 : len(parentSig)-1]
	} else {
		inner = parentSig[childSigStart+1 : next.sigPos-1]
	}

	container := Struct
	if c == '{' {
		container = DictEntry
	}
	child, err := newContainerReader(r.message, container, inner, r.data[start:start+size])
	if err != nil {
		return Reader{}, err
	}
	*r = next
	return child, nil
}

// EnterArray descends into the reader's next child, which must be an
// array 'a', mirroring gvariant-util.c's `_gvariant_iter_enter_array`.
func (r *Reader) EnterArray() (Reader, error) {
	if r.container != Array && r.sigPos >= len(r.sig) {
		return Reader{}, newError(Overrun, r.pos, "no more children")
	}
	if r.container == Array && r.pos >= r.limit {
		return Reader{}, newError(Overrun, r.pos, "no more array elements")
	}

	if r.sig[r.sigPos] != 'a' {
		return Reader{}, newError(TypeMismatch, r.pos, "next type is not an array")
	}

	childSigStart := r.sigPos
	isArray := r.container == Array
	parentSig := r.sig

	next := *r
	start, size, err := next.nextItem()
	if err != nil {
		return Reader{}, err
	}

	var elem string
	if isArray {
		elem = parentSig[1:]
	} else {
		elem = parentSig[childSigStart+1 : next.sigPos]
	}
	child, err := newArrayReader(r.message, elem, r.data[start:start+size])
	if err != nil {
		return Reader{}, err
	}
	*r = next
	return child, nil
}

// EnterVariant descends into the reader's next child, which must be a
// variant 'v', mirroring gvariant-util.c's `_gvariant_iter_enter_variant`.
// The variant's trailing bytes are
// "\0<signature>"; the contained value's type is found by a reverse NUL
// search, validated as a single complete type, and the variant's own data
// extent runs up to (not including) that NUL.
func (r *Reader) EnterVariant() (Reader, error) {
	if r.container != Array && r.sigPos >= len(r.sig) {
		return Reader{}, newError(Overrun, r.pos, "no more children")
	}
	if r.container == Array && r.pos >= r.limit {
		return Reader{}, newError(Overrun, r.pos, "no more array elements")
	}

	if r.sig[r.sigPos] != 'v' {
		return Reader{}, newError(TypeMismatch, r.pos, "next type is not a variant")
	}

	next := *r
	start, size, err := next.nextItem()
	if err != nil {
		return Reader{}, err
	}
	frame := r.data[start : start+size]

	nul := bytes.LastIndexByte(frame, 0)
	if nul < 0 {
		return Reader{}, newError(TruncatedFrame, start, "variant is missing its signature terminator")
	}
	sigBytes := frame[nul+1:]
	if len(sigBytes) > maxVariantSignature {
		return Reader{}, newError(InvalidSignature, start+nul+1, "variant signature is too long")
	}

	innerSig := borrowString(sigBytes)
	if n := NumChildren(innerSig); n != 1 {
		return Reader{}, newError(InvalidSignature, start+nul+1, "variant signature must describe exactly one type")
	}

	*r = next
	return newContainerReader(r.message, Variant, innerSig, frame[:nul])
}
