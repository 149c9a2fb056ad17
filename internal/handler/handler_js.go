//go:build js && wasm

package handler

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"syscall/js"

	"github.com/norunners/vert"
)

// JSError is the shape a recovered panic is marshaled into before crossing
// back into the host JS runtime (SPEC_FULL.md §6, ported from the original's
// astro_napi/src/error.rs panic-to-diagnostic boundary). It is only
// reachable from a wasm build — the compiler core never imports syscall/js.
type JSError struct {
	Message string `js:"message"`
	Stack   string `js:"stack"`
}

func (err *JSError) Value() js.Value {
	return vert.ValueOf(err).Value
}

var fnNameRe = regexp.MustCompile(`(\w+)\([^)]+\)$`)

// ErrorToJSError converts a recovered panic into a JSError, cleaning up the
// Go runtime stack trace into something resembling a JS stack so it reads
// sensibly in a browser/Node devtools console.
func ErrorToJSError(h *Handler, err error) js.Value {
	stack := string(debug.Stack())
	message := strings.TrimSpace(err.Error())
	if strings.Contains(message, ":") {
		message = strings.TrimSpace(strings.Split(message, ":")[1])
	}
	hasFnName := false
	message = fmt.Sprintf("UnknownCompilerError: %s", message)
	cleanStack := message
	for _, v := range strings.Split(stack, "\n") {
		matches := fnNameRe.FindAllString(v, -1)
		if len(matches) > 0 {
			name := strings.Split(matches[0], "(")[0]
			if name == "panic" {
				cleanStack = message
				continue
			}
			cleanStack += fmt.Sprintf("\n    at %s", strings.Split(matches[0], "(")[0])
			hasFnName = true
		} else if hasFnName {
			parts := strings.Split(strings.Split(strings.TrimSpace(v), " ")[0], "/compiler/")
			if len(parts) > 1 {
				cleanStack += fmt.Sprintf(" (@astrojs/compiler/%s)", parts[1])
			}
			hasFnName = false
		}
	}
	jsError := JSError{
		Message: message,
		Stack:   cleanStack,
	}
	return jsError.Value()
}
