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

package gvariant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go.ell.dev/ell/gvariant"
)

// A fixed struct "(iu)" of (0x11223344, 0xAABBCCDD).
func TestFixedStruct(t *testing.T) {
	t.Parallel()
	data := []byte{0x44, 0x33, 0x22, 0x11, 0xDD, 0xCC, 0xBB, 0xAA}
	r, err := gvariant.NewStructReader(nil, "(iu)", data)
	require.NoError(t, err)

	a, err := r.NextInt32()
	require.NoError(t, err)
	require.Equal(t, int32(0x11223344), a)

	b, err := r.NextUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xAABBCCDD), b)

	require.True(t, r.Done())
}

// A bare string "s" = "hi".
func TestBareString(t *testing.T) {
	t.Parallel()
	data := []byte{'h', 'i', 0x00}
	r, err := gvariant.NewStructReader(nil, "(s)", data)
	require.NoError(t, err)

	s, err := r.NextString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)
	require.True(t, r.Done())
}

// A variable struct "(si)" of ("hi", 7): a leading variable-size string
// followed by a fixed int, exercising the reverse offset table.
func TestVariableStruct(t *testing.T) {
	t.Parallel()
	data := []byte{'h', 'i', 0x00, 0x00, 0x07, 0x00, 0x00, 0x00, 0x03}
	r, err := gvariant.NewStructReader(nil, "(si)", data)
	require.NoError(t, err)

	s, err := r.NextString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	n, err := r.NextInt32()
	require.NoError(t, err)
	require.Equal(t, int32(7), n)

	require.True(t, r.Done())
}

// An array of fixed elements "ai" = [1, 2, 3].
func TestArrayOfFixed(t *testing.T) {
	t.Parallel()
	data := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
	}
	r, err := gvariant.NewStructReader(nil, "(ai)", data)
	require.NoError(t, err)

	arr, err := r.EnterArray()
	require.NoError(t, err)
	require.Equal(t, gvariant.Array, arr.Container())

	var got []int32
	for !arr.Done() {
		v, err := arr.NextInt32()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []int32{1, 2, 3}, got)

	_, err = arr.NextInt32()
	require.ErrorIs(t, err, gvariant.ErrOverrun)
}

// An array of variable elements "as" = ["a", "bb"], exercising the
// forward offset table reached through its indirection pointer.
func TestArrayOfVariable(t *testing.T) {
	t.Parallel()
	data := []byte{'a', 0x00, 'b', 'b', 0x00, 0x02, 0x05}
	r, err := gvariant.NewStructReader(nil, "(as)", data)
	require.NoError(t, err)

	arr, err := r.EnterArray()
	require.NoError(t, err)

	var got []string
	for !arr.Done() {
		v, err := arr.NextString()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []string{"a", "bb"}, got)

	_, err = arr.NextString()
	require.ErrorIs(t, err, gvariant.ErrOverrun)
}

// A variant "v" holding an int32.
func TestVariant(t *testing.T) {
	t.Parallel()
	data := []byte{0x2A, 0x00, 0x00, 0x00, 0x00, 'i'}
	r, err := gvariant.NewStructReader(nil, "(v)", data)
	require.NoError(t, err)

	v, err := r.EnterVariant()
	require.NoError(t, err)
	require.Equal(t, gvariant.Variant, v.Container())

	n, err := v.NextInt32()
	require.NoError(t, err)
	require.Equal(t, int32(42), n)
}

// Malformed input is rejected with the right error kind, and a failed
// operation never mutates the reader it was called on.
func TestMalformed(t *testing.T) {
	t.Parallel()

	t.Run("invalid signature", func(t *testing.T) {
		t.Parallel()
		_, err := gvariant.NewStructReader(nil, "(iz)", []byte{0, 0, 0, 0, 0, 0, 0, 0})
		require.Error(t, err)
		var gerr *gvariant.Error
		require.True(t, errors.As(err, &gerr))
		require.Equal(t, gvariant.InvalidSignature, gerr.Kind)
	})

	t.Run("truncated frame", func(t *testing.T) {
		t.Parallel()
		// Only enough bytes for the first field of "(iu)".
		data := []byte{0x44, 0x33, 0x22, 0x11}
		r, err := gvariant.NewStructReader(nil, "(iu)", data)
		require.NoError(t, err)

		a, err := r.NextInt32()
		require.NoError(t, err)
		require.Equal(t, int32(0x11223344), a)

		_, err = r.NextUint32()
		require.ErrorIs(t, err, gvariant.ErrTruncatedFrame)
	})

	t.Run("type mismatch leaves the reader unchanged", func(t *testing.T) {
		t.Parallel()
		data := []byte{0x44, 0x33, 0x22, 0x11, 0xDD, 0xCC, 0xBB, 0xAA}
		r, err := gvariant.NewStructReader(nil, "(iu)", data)
		require.NoError(t, err)

		_, err = r.NextString()
		require.ErrorIs(t, err, gvariant.ErrTypeMismatch)

		// The failed NextString must not have consumed anything: the
		// same reader still yields the int32 that was always next.
		a, err := r.NextInt32()
		require.NoError(t, err)
		require.Equal(t, int32(0x11223344), a)
	})

	t.Run("overrun past the last child", func(t *testing.T) {
		t.Parallel()
		data := []byte{0x44, 0x33, 0x22, 0x11, 0xDD, 0xCC, 0xBB, 0xAA}
		r, err := gvariant.NewStructReader(nil, "(iu)", data)
		require.NoError(t, err)

		_, err = r.NextInt32()
		require.NoError(t, err)
		_, err = r.NextUint32()
		require.NoError(t, err)

		_, err = r.NextInt32()
		require.ErrorIs(t, err, gvariant.ErrOverrun)
	})

	t.Run("not a struct at the top level", func(t *testing.T) {
		t.Parallel()
		_, err := gvariant.NewStructReader(nil, "i", []byte{0, 0, 0, 0})
		require.ErrorIs(t, err, gvariant.ErrInvalidSignature)
	})
}

// Nested containers compose: a struct holding an array of structs.
func TestNestedContainers(t *testing.T) {
	t.Parallel()
	// "(a(si))" with one element ("hi", 7): the same variable-struct layout
	// as the ("hi", 7) case above, followed by the array's own one-entry
	// forward offset table. With a
	// single variable-size element the table's only word doubles as the
	// indirection pointer to its own position (9), since the element's
	// end and the table's start necessarily coincide.
	data := []byte{'h', 'i', 0x00, 0x00, 0x07, 0x00, 0x00, 0x00, 0x03, 0x09}
	r, err := gvariant.NewStructReader(nil, "(a(si))", data)
	require.NoError(t, err)

	arr, err := r.EnterArray()
	require.NoError(t, err)

	elem, err := arr.EnterStruct()
	require.NoError(t, err)
	require.Equal(t, gvariant.Struct, elem.Container())

	s, err := elem.NextString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	n, err := elem.NextInt32()
	require.NoError(t, err)
	require.Equal(t, int32(7), n)
}
