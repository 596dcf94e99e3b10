package utils

import (
	"runtime"
)

// Stack returns a formatted stack trace, skipping the given number of frames.
func Stack(skip int) []byte {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return trimFrames(buf[:n], skip)
		}
		buf = make([]byte, 2*len(buf))
	}
}

// trimFrames drops the goroutine header line plus `skip` frames (two lines
// per frame in runtime.Stack output).
func trimFrames(stack []byte, skip int) []byte {
	lines := 1 + 2*skip
	idx := 0
	for i, b := range stack {
		if b == '\n' {
			lines--
			if lines == 0 {
				idx = i + 1
				break
			}
		}
	}
	if idx >= len(stack) {
		return stack
	}
	return stack[idx:]
}
