//go:build debug

// Package xdebug provides debug-only invariant checks and trace logging for
// radixkv's internals. Log and Assert compile to no-ops unless the "debug"
// build tag is set.
package xdebug

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"

	"github.com/flier/radixkv/internal/xflag"
)

// Enabled is true when the binary is built with the debug tag.
const Enabled = true

var (
	debugPattern = xflag.Func("filter", "regexp to filter debug logs by", regexp.Compile)
	nocapture    = flag.Bool("nocapture", false, "disables capturing debug logs as test logs")
)

// Log prints a trace line identifying the caller's package/file/line and
// goroutine id, optionally routed into a *testing.T via WithTesting.
//
// context is optional printf args printed ahead of operation, used to tag a
// group of related log lines (e.g. the key currently being inserted).
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)

	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/flier/radixkv")
	pkg = strings.TrimPrefix(pkg, "/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}
	if pkg == "" {
		pkg = "radixkv"
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)

	_, _ = fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid())
	if len(context) >= 1 {
		_, _ = fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...)
	}
	_, _ = fmt.Fprintf(buf, "] %s: ", operation)
	_, _ = fmt.Fprintf(buf, format, args...)

	if *debugPattern != nil &&
		!(*debugPattern).MatchString(buf.String()) {
		return
	}

	t := tls.Get()
	if !*nocapture && t != nil {
		t.Log(buf.String())
		return
	}

	_, _ = buf.Write([]byte{'\n'})
	_, _ = os.Stderr.WriteString(buf.String())
	_ = os.Stderr.Sync()
}

// Assert panics if cond is false. Used to guard invariants that must never
// be violated by correct callers of the public Tree API (slab index
// bounds, child-table capacity). A panic here
// always indicates a bug in radixkv itself, never bad input.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("radixkv: internal assertion failed: "+format, args...))
	}
}

// Value holds a value that only exists in debug builds, such as an extra
// bookkeeping counter kept solely to cross-check invariants in tests.
type Value[T any] struct {
	x T
}

// Get returns a pointer to the held value.
func (v *Value[T]) Get() *T { return &v.x }
