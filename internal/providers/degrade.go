package providers

import (
	"errors"
	"strings"
)

// statusError carries the upstream HTTP status code alongside the
// underlying fetch error, so searchWithDegradation can tell a 400 (bad
// query, worth retrying narrower) apart from a transient or permanent
// failure (worth propagating as-is).
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func newStatusError(status int, err error) error {
	return &statusError{status: status, err: err}
}

func isBadRequest(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status == 400
	}
	return false
}

// titleOnlyQuery narrows a query to its first four words with quote marks
// stripped (degradeQuery), the first rung of the HTTP-400 degradation ladder: most
// scholarly search APIs reject an overlong free-text query but accept a
// short title-shaped one.
func titleOnlyQuery(topic string) string {
	return degradeQuery(topic)
}

// abstractOnlyQuery narrows further still, to the single leading keyword,
// the last rung before giving up.
func abstractOnlyQuery(topic string) string {
	fields := strings.Fields(strings.ReplaceAll(topic, `"`, ""))
	if len(fields) == 0 {
		return topic
	}
	return fields[0]
}
