package pipeline

import "fmt"

// PartialDataError reports that some accounts could not be polled for
// positions. It is recovered locally: the run continues with the accounts
// that answered and the error is surfaced as a warning count only.
type PartialDataError struct {
	Failed    int
	Requested int
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("positions unavailable for %d of %d accounts", e.Failed, e.Requested)
}
