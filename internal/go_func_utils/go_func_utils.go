package go_func_utils

import (
	"log"
	"runtime/debug"
	"sync"
)

// SafeGo runs fn on a new goroutine, logging any panic (with stack) before
// re-panicking. The curses UI swallows stderr, so without this a crashing
// goroutine dies silently.
func SafeGo(logger *log.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}

// SafeGoWait is SafeGo plus WaitGroup bookkeeping: it calls wg.Add before
// starting the goroutine and wg.Done when fn returns.
func SafeGoWait(wg *sync.WaitGroup, logger *log.Logger, fn func()) {
	wg.Add(1)
	SafeGo(logger, func() {
		defer wg.Done()
		fn()
	})
}
