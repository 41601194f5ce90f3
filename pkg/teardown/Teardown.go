// Package teardown implements a stack of release functions
// that are executed in last-in-first-out order.
package teardown

import (
	"sync"

	"go.llib.dev/dispose/pkg/errorkit"
)

type Teardown struct {
	mutex sync.Mutex
	fns   []func() error
}

// Defer function defers the execution of a function until Finish is called.
// Deferred functions are guaranteed to run, regardless of panics during the execution of another deferred function.
// Functions are executed in last-in-first-out order, the same way as the defer keyword,
// which gives nested resources an outer-to-inner release order when the inner is deferred first.
//
// e.g.:
//   - iterators, connections, transactions
//   - basically anything that has the io.Closer interface
func (td *Teardown) Defer(fn func() error) {
	td.mutex.Lock()
	defer td.mutex.Unlock()
	td.fns = append(td.fns, fn)
}

// Finish executes the deferred functions and returns their merged errors.
// Functions deferred during the execution of a deferred function are executed as well.
// After Finish, the Teardown is empty and can be reused.
func (td *Teardown) Finish() error {
	var errors []error
	for !td.isEmpty() { // handle Deferred functions deferred during the execution of a deferred function
		errors = append(errors, td.run()...)
	}
	return errorkit.Merge(errors...)
}

// Len reports the number of pending deferred functions.
func (td *Teardown) Len() int {
	td.mutex.Lock()
	defer td.mutex.Unlock()
	return len(td.fns)
}

func (td *Teardown) isEmpty() bool {
	return td.Len() == 0
}

func (td *Teardown) run() (errs []error) {
	td.mutex.Lock()
	fns := td.fns
	td.fns = nil
	td.mutex.Unlock()
	for _, fn := range fns {
		defer func(fn func() error) {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}(fn)
	}
	return
}
