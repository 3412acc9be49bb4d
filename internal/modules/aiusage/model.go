// README: Monthly AI-call quota, keyed per plan.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a key has no calls remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the monthly allowance used when none is configured.
const DefaultTokens = 100
