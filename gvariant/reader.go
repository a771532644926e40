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

// Container identifies the kind of composite a Reader is iterating over.
// It governs how nextItem locates a child's extent: structs and dict
// entries use a reverse offset table, arrays a forward one, and variants
// have exactly one implicit child.
type Container uint8

const (
	// Struct is an ordinary tuple; its offset table, if any, is stored
	// backward from the end of the frame.
	Struct Container = iota
	// DictEntry is the two-member {key value} container required inside
	// an array of dict entries. It shares Struct's layout rules; it is
	// tracked separately only so callers and diagnostics can tell them
	// apart.
	DictEntry
	// Array repeats a single element type; the signature cursor never
	// advances, and the offset table (when the element is variable-size)
	// is stored forward, reached indirectly through a pointer word.
	Array
	// Variant holds exactly one self-describing child, whose trailing
	// bytes carry its signature.
	Variant
)

func (c Container) String() string {
	switch c {
	case Struct:
		return "struct"
	case DictEntry:
		return "dict-entry"
	case Array:
		return "array"
	case Variant:
		return "variant"
	default:
		return "unknown"
	}
}

// Reader is a zero-copy, single-owner iterator over one GVariant frame.
// A Reader never allocates on its decode path, never
// copies the bytes it walks, and is safe to use from exactly one goroutine
// at a time; a child Reader returned by EnterStruct/EnterArray/EnterVariant
// exclusively borrows from its parent's frame and must not be used after
// the parent frame is discarded.
//
// The zero Reader is not usable; construct one with NewStructReader or by
// entering a composite child of an existing Reader.
type Reader struct {
	// message is an opaque handle to whatever owns the frame (a D-Bus
	// message, a settings blob, whatever the caller is decoding out of);
	// the core never inspects it.
	message any

	sig    string // borrowed signature window for this reader's children
	sigPos int    // cursor into sig; 0 <= sigPos <= len(sig)

	data []byte // borrowed byte slice backing this frame
	pos  int     // cursor into data; 0 <= pos <= len(data)

	// limit is the byte position beyond which no child's bytes may
	// extend: len(data) itself for a frame with no offset table, but
	// short of that when the frame reserves trailing bytes for one.
	// A struct/dict-entry with N variable, non-last children reserves
	// N*offW bytes at its tail for their reverse offsets, so a last
	// variable child's implicit extent runs to limit, not len(data).
	// An array of variable elements reserves everything from its
	// forward table's start onward, so limit is that start, not
	// len(data): data[len(data)-W] holds the table's start position,
	// which is also the last element's end, the indirection gvariant-util.c's
	// `gvariant_iter_init_internal` resolves once up front for arrays.
	limit int

	container Container

	// offPos/offDir/offW describe the offset table, if this frame has
	// one. offW == 0 means no table is used by this container (a fixed
	// struct, a fixed-element array, or a variant's single implicit
	// child).
	offPos int
	offDir int
	offW   int
}

// Message returns the opaque handle this reader (or the ancestor it was
// entered from) was constructed with.
func (r *Reader) Message() any { return r.message }

// Container reports which kind of composite this reader is iterating.
func (r *Reader) Container() Container { return r.container }

// Done reports whether the reader has yielded every child it can: either
// its signature window is exhausted (struct, dict entry, variant) or its
// byte cursor has reached the end of the frame (true for all container
// kinds, and the only terminal test that applies to arrays).
func (r *Reader) Done() bool {
	if r.pos >= r.limit {
		return true
	}
	return r.container != Array && r.sigPos >= len(r.sig)
}

// NewStructReader constructs the initial Reader over a top-level frame
// whose type is the struct sig (e.g. "(iu)"), the Go counterpart of
// gvariant-util.c's `gvariant_iter_new`/`gvariant_iter_init`. message is
// an opaque handle threaded through to child readers; the core never
// inspects it.
//
// data's lifetime must dominate the returned Reader and every string it
// yields: the Reader holds a borrow, not a copy.
func NewStructReader(message any, sig string, data []byte) (Reader, error) {
	end, _, _, _, err := scanType(sig, 0, 0)
	if err != nil {
		return Reader{}, err
	}
	if end != len(sig) {
		return Reader{}, newError(InvalidSignature, end, "trailing bytes after top-level type")
	}
	if len(sig) == 0 || sig[0] != '(' {
		return Reader{}, newError(InvalidSignature, 0, "top-level type must be a struct")
	}
	children := sig[1 : len(sig)-1]
	return newContainerReader(message, Struct, children, data)
}

// newContainerReader builds a reader for a Struct, DictEntry, or Variant
// frame whose children signature is already known. Arrays are built by
// newArrayReader, since their layout rules differ enough to be worth
// keeping separate.
func newContainerReader(message any, container Container, childSig string, data []byte) (Reader, error) {
	if container == Variant {
		return Reader{message: message, sig: childSig, data: data, container: container, limit: len(data)}, nil
	}

	w := offsetWidth(len(data))
	_, variableNonLast, err := countTrailingVariable(childSig)
	if err != nil {
		return Reader{}, err
	}
	if len(data) < variableNonLast*w {
		return Reader{}, newError(TruncatedFrame, 0, "frame too small for its offset table")
	}

	r := Reader{message: message, sig: childSig, data: data, container: container, limit: len(data) - variableNonLast*w}
	if variableNonLast > 0 {
		r.offW = w
		r.offDir = -1
		r.offPos = len(data) - w
	}
	return r, nil
}

// newArrayReader builds a reader over an array's elements: fixed-size
// elements need no offset table at all, while variable-size elements are
// located through the forward table gvariant-util.c's
// `_gvariant_iter_enter_array` sets up via its indirection pointer.
func newArrayReader(message any, elemSig string, data []byte) (Reader, error) {
	end, _, fixed, _, err := scanType(elemSig, 0, 0)
	if err != nil {
		return Reader{}, err
	}
	if end != len(elemSig) {
		return Reader{}, newError(InvalidSignature, end, "trailing bytes after array element type")
	}

	r := Reader{message: message, sig: elemSig, data: data, container: Array, limit: len(data)}
	if fixed || len(data) == 0 {
		return r, nil
	}

	w := offsetWidth(len(data))
	first, err := readOffset(data, len(data)-w, w)
	if err != nil {
		return Reader{}, err
	}
	if first < 0 || first > len(data) {
		return Reader{}, newError(OffsetOutOfRange, len(data)-w, "array forward-table pointer out of range")
	}
	r.offW = w
	r.offDir = +1
	r.offPos = first
	r.limit = first
	return r, nil
}

// nextItem locates the next child's byte extent and advances the reader,
// the per-item step of gvariant-util.c's `next_item`. On any failure the
// reader is left completely unchanged.
func (r *Reader) nextItem() (start, size int, err error) {
	if r.container == Array {
		if r.pos >= r.limit {
			return 0, 0, newError(Overrun, r.pos, "no more array elements")
		}
	} else if r.sigPos >= len(r.sig) {
		return 0, 0, newError(Overrun, r.pos, "no more children in signature")
	}

	typeEnd, align, fixed, width, terr := scanType(r.sig, r.sigPos, 0)
	if terr != nil {
		return 0, 0, terr
	}
	last := typeEnd == len(r.sig)

	newSigPos := r.sigPos
	if r.container != Array {
		newSigPos = typeEnd
	}

	pos := alignUp(r.pos, align)
	newOffPos := r.offPos

	switch {
	case fixed:
		size = width
	case r.container != Array && last:
		size = r.limit - pos
	default:
		if r.offW == 0 {
			return 0, 0, newError(TruncatedFrame, pos, "child requires an offset table this frame doesn't have")
		}
		end, oerr := readOffset(r.data, r.offPos, r.offW)
		if oerr != nil {
			return 0, 0, oerr
		}
		if end > r.limit || end < pos {
			return 0, 0, newError(OffsetOutOfRange, r.offPos, "offset-table entry out of range")
		}
		size = end - pos
		newOffPos = r.offPos + r.offDir*r.offW
	}

	if pos >= r.limit || size < 0 || pos+size > r.limit {
		return 0, 0, newError(TruncatedFrame, pos, "child extends past the frame")
	}

	r.sigPos = newSigPos
	r.offPos = newOffPos
	r.pos = pos + size
	return pos, size, nil
}
