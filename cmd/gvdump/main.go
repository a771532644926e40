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

// Command gvdump walks a GVariant frame and prints a tree of its values.
// It exists purely to exercise the gvariant package from outside its test
// suite; the library itself takes no flags, files, or environment.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/xyproto/env/v2"

	"go.ell.dev/ell/gvariant"
	"go.ell.dev/ell/internal/memfile"
)

var (
	sig   = flag.String("sig", "", "top-level struct signature, e.g. \"(si)\"")
	file  = flag.String("file", "", "frame to map and dump; defaults to stdin")
	trace = flag.Bool("trace", false, "tag output lines with a run ID, for correlating repeated dumps")
)

func main() {
	flag.Parse()
	if *sig == "" {
		fmt.Fprintln(os.Stderr, "gvdump: -sig is required")
		os.Exit(2)
	}

	maxDepth := env.Int("GVDUMP_MAX_DEPTH", gvariant.MaxDepth)

	data, closeFn, err := loadFrame(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gvdump:", err)
		os.Exit(1)
	}
	defer closeFn()

	runID := ""
	if *trace {
		runID = uuid.NewString()[:8] + " "
	}

	r, err := gvariant.NewStructReader(nil, *sig, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gvdump: %s%v\n", runID, err)
		os.Exit(1)
	}

	d := &dumper{maxDepth: maxDepth, runID: runID}
	d.dump(&r, 0)
}

func loadFrame(path string) (data []byte, closeFn func(), err error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return b, func() {}, err
	}

	mf, err := memfile.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return mf.Bytes(), func() { mf.Close() }, nil
}

type dumper struct {
	maxDepth int
	runID    string
}

func (d *dumper) indent(depth int) string {
	return d.runID + fmt.Sprintf("%*s", depth*2, "")
}

// dump walks r to exhaustion, printing one line per value. It tries each
// composite descent in turn before falling back to the basic extractors;
// the first one that succeeds tells us what kind of value came next.
func (d *dumper) dump(r *gvariant.Reader, depth int) {
	if depth > d.maxDepth {
		fmt.Printf("%s...(max depth reached)\n", d.indent(depth))
		return
	}

	for !r.Done() {
		if child, err := r.EnterStruct(); err == nil {
			fmt.Printf("%s%s {\n", d.indent(depth), child.Container())
			d.dump(&child, depth+1)
			fmt.Printf("%s}\n", d.indent(depth))
			continue
		}
		if child, err := r.EnterArray(); err == nil {
			fmt.Printf("%sarray [\n", d.indent(depth))
			d.dump(&child, depth+1)
			fmt.Printf("%s]\n", d.indent(depth))
			continue
		}
		if child, err := r.EnterVariant(); err == nil {
			fmt.Printf("%svariant <\n", d.indent(depth))
			d.dump(&child, depth+1)
			fmt.Printf("%s>\n", d.indent(depth))
			continue
		}
		if v, err := r.NextBool(); err == nil {
			fmt.Printf("%sbool: %v\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextByte(); err == nil {
			fmt.Printf("%sbyte: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextInt16(); err == nil {
			fmt.Printf("%sint16: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextUint16(); err == nil {
			fmt.Printf("%suint16: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextInt32(); err == nil {
			fmt.Printf("%sint32: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextUint32(); err == nil {
			fmt.Printf("%suint32: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextInt64(); err == nil {
			fmt.Printf("%sint64: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextUint64(); err == nil {
			fmt.Printf("%suint64: %d\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextFloat64(); err == nil {
			fmt.Printf("%sdouble: %v\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextString(); err == nil {
			fmt.Printf("%sstring: %q\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextObjectPath(); err == nil {
			fmt.Printf("%sobject path: %q\n", d.indent(depth), v)
			continue
		}
		if v, err := r.NextSignature(); err == nil {
			fmt.Printf("%ssignature: %q\n", d.indent(depth), v)
			continue
		}

		fmt.Printf("%s<stuck: next value matched no known type>\n", d.indent(depth))
		return
	}
}
