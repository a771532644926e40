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

// Package assert holds debug-only diagnostics shared by the ell packages.
//
// Nothing here is on the gvariant decode hot path: a well-formed caller
// never trips an assertion, and a malformed frame is reported through
// gvariant.Error, not through this package. Assert exists to catch bugs in
// ell itself (an internal invariant broken by a code change), not bugs in
// caller-supplied bytes.
package assert

// Enabled reports whether the build was made with the debug build tag.
// Non-debug builds compile Assert down to nothing.
const Enabled = enabled

// Assert panics with a formatted message if cond is false, but only when
// the package was built with the "debug" build tag.
func Assert(cond bool, format string, args ...any) {
	assert(cond, format, args...)
}
