package agenda

import "time"

// pollUntil re-evaluates predicate every interval until it reports done or
// maxAttempts is reached. The page exposes no event for AJAX-driven widget
// updates, so bounded polling is the only way to wait for them. Predicates
// swallow transient DOM errors (stale handles, not-yet-attached elements) and
// return them as "not done"; a returned error is terminal.
func pollUntil(predicate func() (bool, error), interval time.Duration, maxAttempts int) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		done, err := predicate()
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		time.Sleep(interval)
	}
	return false, nil
}

// settle pauses for the animation/AJAX delays the page needs after clicks on
// calendar cells and filter toggles. There is nothing to poll for; the grid
// replaces itself in place.
func settle(d time.Duration) {
	time.Sleep(d)
}
