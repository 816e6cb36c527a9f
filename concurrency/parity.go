package concurrency

import (
	"fmt"
	"io"
	"sync"
)

// EvenOdd starts one goroutine printing the even numbers below limit and
// another printing the odd ones, then waits for both.
func EvenOdd(w io.Writer, limit int) {
	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
	)
	printer := func(label string, remainder int) {
		defer wg.Done()
		for i := range limit {
			if i%2 != remainder {
				continue
			}
			mutex.Lock()
			fmt.Fprintf(w, "%s worker: %d\n", label, i)
			mutex.Unlock()
		}
	}

	wg.Add(2)
	go printer("Even", 0)
	go printer("Odd", 1)
	wg.Wait()
}
