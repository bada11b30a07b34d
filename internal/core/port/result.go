package port

import "github.com/google/uuid"

// QueryResult is the outcome of one agent operation. Either Result is set
// (success) or Err carries the failure; there is no retry state and no
// history across invocations.
type QueryResult struct {
	ID       uuid.UUID  `json:"id"`
	Question string     `json:"question,omitempty"`
	SQL      string     `json:"sql,omitempty"`
	Result   *ResultSet `json:"result,omitempty"`
	Err      error      `json:"-"`
}

// OK reports whether the operation succeeded.
func (r QueryResult) OK() bool { return r.Err == nil }
