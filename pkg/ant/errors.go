// pkg/ant/errors.go
package ant

import "errors"

var (
	// ErrInvalidEndpoint rejects searches whose endpoints are out of
	// range or identical.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrNotMatched means a route was requested before any node
	// observed both roles for the seed.
	ErrNotMatched = errors.New("route not matched")

	// ErrIntegrity flags a protocol-invariant violation, such as a
	// backward-pointer cycle or conflicting match midpoints.
	ErrIntegrity = errors.New("integrity violation")

	// ErrBudgetExhausted reports a search that ran out of hop or fee
	// budget without finding a match. A normal outcome, not a fault.
	ErrBudgetExhausted = errors.New("budget exhausted before match")
)
