package threads

import (
	"runtime"
	"strconv"
	"strings"
)

// gid returns the current goroutine's id, parsed from the stack trace
// header ("goroutine N [running]:"). Ownership-tracking primitives
// ([Enter], [RwLock.WriteEnter]) use it to detect re-entrant callers.
//
// The parse is slow relative to a mutex operation, but it only runs on
// paths that may block anyway.
func gid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	field, _, _ := strings.Cut(header, " ")
	id, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		panic("threads: cannot parse goroutine id: " + err.Error())
	}
	return id
}
