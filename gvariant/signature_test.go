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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.ell.dev/ell/gvariant"
)

func TestValidSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  string
		want bool
	}{
		{"empty", "", false},
		{"bool", "b", true},
		{"all basics", "bynqiuxtdshog", true},
		{"unit struct", "()", true},
		{"simple struct", "(iu)", true},
		{"nested struct", "(i(uu)i)", true},
		{"array", "ai", true},
		{"array of struct", "a(si)", true},
		{"dict entry alone", "{sv}", true},
		{"array of dict entry", "a{sv}", true},
		{"variant", "v", true},
		{"truncated struct", "(i", false},
		{"unopened struct", "i)", false},
		{"dict entry non-simple key", "{(i)v}", false},
		{"dict entry with three children", "{siv}", false},
		{"unknown letter", "z", false},
		{"maybe type not supported", "mi", false},
		{"array with no element", "a", false},
		{"lone open brace", "{", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, gvariant.Valid(tt.sig))
		})
	}
}

func TestValidSignatureTotality(t *testing.T) {
	t.Parallel()

	// Property: for every string up to a modest length built from the
	// signature alphabet plus noise, Valid terminates and, when it
	// reports true, NumChildren and Alignment agree with it.
	alphabet := "bynqiuxtdshogv(){}a "
	var walk func(prefix string, depth int)
	walk = func(prefix string, depth int) {
		if depth == 0 {
			if gvariant.Valid(prefix) {
				require.GreaterOrEqual(t, gvariant.NumChildren(prefix), 1)
				align, ok := gvariant.Alignment(prefix)
				require.True(t, ok)
				require.Contains(t, []uint8{1, 2, 4, 8}, align)
			} else {
				require.Equal(t, -1, gvariant.NumChildren(prefix))
			}
			return
		}
		for _, c := range alphabet {
			walk(prefix+string(c), depth-1)
		}
	}
	walk("", 3)
}

func TestIdempotentNumChildren(t *testing.T) {
	t.Parallel()
	for _, sig := range []string{"(iu)", "a{sv}", "(si)", "ai"} {
		require.Equal(t, gvariant.NumChildren(sig), gvariant.NumChildren(sig))
	}
}

func TestFixedSizeAgreesWithAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sig    string
		fixed  bool
		size   int
		align  uint8
	}{
		{"b", true, 1, 1},
		{"y", true, 1, 1},
		{"n", true, 2, 2},
		{"q", true, 2, 2},
		{"i", true, 4, 4},
		{"u", true, 4, 4},
		{"h", true, 4, 4},
		{"x", true, 8, 8},
		{"t", true, 8, 8},
		{"d", true, 8, 8},
		{"()", true, 1, 1},
		{"(iu)", true, 8, 4},
		{"(yi)", true, 8, 4}, // 1 byte + 3 pad + 4 bytes
		{"(ynx)", true, 16, 8},
		{"s", false, 0, 1},
		{"as", false, 0, 1},
		{"(is)", false, 0, 4},
		{"v", false, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			t.Parallel()
			fixed, ok := gvariant.IsFixed(tt.sig)
			require.True(t, ok)
			require.Equal(t, tt.fixed, fixed)
			require.Equal(t, tt.size, gvariant.FixedSize(tt.sig))
			align, ok := gvariant.Alignment(tt.sig)
			require.True(t, ok)
			require.Equal(t, tt.align, align)
			if fixed {
				require.Zero(t, tt.size%int(align), "fixed size must be a multiple of alignment")
			}
		})
	}
}

func TestMaxDepthRejected(t *testing.T) {
	t.Parallel()
	sig := strings.Repeat("a", gvariant.MaxDepth+2) + "i"
	require.False(t, gvariant.Valid(sig))
}

func TestMaxDepthAccepted(t *testing.T) {
	t.Parallel()
	sig := strings.Repeat("a", gvariant.MaxDepth-1) + "i"
	require.True(t, gvariant.Valid(sig))
}
