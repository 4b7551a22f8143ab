package merge

import "fmt"

// MergeWriteError reports a failure while assembling the merged file. The
// caller regenerates the whole file instead of writing a partial merge.
type MergeWriteError struct {
	Stage string
	Err   error
}

func (e *MergeWriteError) Error() string {
	return fmt.Sprintf("merge %s: %v", e.Stage, e.Err)
}

func (e *MergeWriteError) Unwrap() error {
	return e.Err
}
