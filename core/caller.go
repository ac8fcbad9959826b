package core

import (
	"bytes"
	"runtime"
	"strconv"
)

// CallerInfo identifies the source location that produced a record.
// The zero value means no location was captured.
type CallerInfo struct {
	Defined  bool
	File     string
	Line     int
	Function string
}

// GetCaller captures the location skip frames above its own caller.
// skip of 0 reports the caller of GetCaller itself.
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}
	ci := CallerInfo{Defined: true, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		ci.Function = fn.Name()
	}
	return ci
}

var goroutinePrefix = []byte("goroutine ")

// GoroutineID parses the running goroutine's id from its stack header.
// It is too slow for hot paths and exists for diagnostic record attributes.
func GoroutineID() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(s[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
