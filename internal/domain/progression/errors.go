package progression

import "errors"

// Sentinel kinds for malformed queries. An empty answer is not an error; see Result.NoData.
var (
	ErrNoEvent    = errors.New("progression query needs an event")
	ErrNoAthletes = errors.New("progression query needs at least one athlete")
)
