package reports

import "errors"

// ErrNotFound is returned by repos when no record matches. The service
// layer maps it to the API's nil/empty contract.
var ErrNotFound = errors.New("report not found")
