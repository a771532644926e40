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

// Package log is an external collaborator of gvariant: the library's own logging facility.
// It is out of scope for this module and holds no implementation; gvariant
// takes an opaque message handle and a byte slice, and never reaches into
// whatever owns them.
package log
