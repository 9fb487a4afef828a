package trustmanager

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const latestKnownTimeFile = "latest_known_time.json"

type latestKnownTime struct {
	Time time.Time `json:"time"`
}

// Clock samples the system wall clock and guards against it ever being
// observed to step backward relative to the latest time this client has
// previously seen, per spec.md §4.5. Without this guard, rolling back a
// machine's clock would make expired, rolled-back metadata look fresh
// again — the timestamp/snapshot/targets expiry checks are only as
// trustworthy as the clock they're compared against.
type Clock struct {
	store *Datastore
}

// NewClock returns a Clock that persists its floor value in store.
func NewClock(store *Datastore) *Clock {
	return &Clock{store: store}
}

// Now returns the current wall-clock time, after checking it is not
// earlier than the latest time ever observed through this Clock, and
// then advancing the persisted floor to that time.
//
// A missing floor file, or one whose content fails to parse, is treated
// as "no prior observation": a freshly initialized datastore, or one
// whose floor file was itself lost to content corruption, has nothing
// trustworthy to compare against, so the first sample simply becomes
// the new floor (same decision tough's Rust implementation makes: a
// corrupt prior-trusted-file is not itself treated as rollback
// evidence). A genuine I/O failure reading an existing floor file is
// not given the same benefit of the doubt — it surfaces as
// DatastoreUnreadable, since silently ignoring it would let a local
// actor capable of triggering read failures defeat the clock-step
// guard the same way a rolled-back clock would.
func (c *Clock) Now() (time.Time, error) {
	now := time.Now().UTC()

	floor, ok, err := c.readFloor()
	if err != nil {
		return time.Time{}, err
	}
	if ok && now.Before(floor.Time) {
		return time.Time{}, &SystemTimeSteppedBackward{
			Observed: now.Format(time.RFC3339),
			Floor:    floor.Time.Format(time.RFC3339),
		}
	}

	if err := c.writeFloor(now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func (c *Clock) readFloor() (latestKnownTime, bool, error) {
	b, err := c.store.Reader(latestKnownTimeFile)
	if err != nil {
		var unreadable *DatastoreUnreadable
		if errors.As(err, &unreadable) {
			return latestKnownTime{}, false, err
		}
		return latestKnownTime{}, false, nil
	}
	var lkt latestKnownTime
	if err := json.Unmarshal(b, &lkt); err != nil {
		return latestKnownTime{}, false, nil
	}
	return lkt, true, nil
}

func (c *Clock) writeFloor(t time.Time) error {
	b, err := json.Marshal(latestKnownTime{Time: t})
	if err != nil {
		return err
	}
	return c.store.Create(latestKnownTimeFile, b)
}

// IsNotExist reports whether err indicates a datastore file simply does
// not exist yet, as opposed to a real I/O failure.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
