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

// Package gvariant is a read-only, zero-copy, zero-allocation iterator
// over the GVariant binary serialization format used by D-Bus and GLib.
//
// A [Reader] borrows a signature string and a byte slice from its caller;
// it never copies either. Basic-type extraction methods such as
// [Reader.NextString] return strings that are themselves borrows into the
// caller's buffer: they are valid only as long as that buffer is.
//
// Construct the top-level reader with [NewStructReader], then descend
// into composite children with [Reader.EnterStruct], [Reader.EnterArray],
// or [Reader.EnterVariant], and extract basic values with the Next*
// methods. Every operation either succeeds and advances the reader, or
// fails and leaves it completely unchanged, so a caller can always retry
// a different extraction after a failed one.
//
// This package does not encode GVariant, does not support signature
// characters outside the alphabet documented on [Valid], and only
// understands little-endian frames. It performs no I/O and is safe for
// use by exactly one goroutine at a time; see the package-level Reader
// documentation for how parent/child readers may coexist.
package gvariant
