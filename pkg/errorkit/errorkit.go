// Package errorkit holds the error primitives shared by the release machinery:
// constant sentinel errors and merging of errors that surface from multiple closers.
package errorkit

// Finish is a helper function that can be used from a deferred context.
// blk always runs, but its error is only returned when returnErr holds no error yet,
// so the original error reaches the caller unchanged.
//
// Usage:
//
//	defer errorkit.Finish(&returnError, itr.Close)
func Finish(returnErr *error, blk func() error) {
	err := blk()
	if *returnErr == nil {
		*returnErr = err
	}
}
