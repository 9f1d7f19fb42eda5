package engine

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var crashHandler atomic.Pointer[func(any)]

// SetCrashHandler installs the hook run when a runner goroutine panics
// The hook owns process exit; nil restores the default stderr dump
func SetCrashHandler(fn func(r any)) {
	if fn == nil {
		crashHandler.Store(nil)
		return
	}
	crashHandler.Store(&fn)
}

func handleCrash(r any) {
	if h := crashHandler.Load(); h != nil {
		(*h)(r)
		return
	}
	fmt.Fprintf(os.Stderr, "arena: crash: %v\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// goSafe runs fn on a new goroutine with panic recovery
func goSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				handleCrash(r)
			}
		}()
		fn()
	}()
}
