package leads

import (
	"context"
	"errors"
	"time"

	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// DefaultDuplicateWindowHours is the trailing span during which a repeat
// submission from the same contact is suppressed.
const DefaultDuplicateWindowHours = 24

// DuplicateChecker answers whether a contact already submitted within the
// trailing window. The window is recomputed on every call, never cached.
type DuplicateChecker struct {
	store  Store
	window time.Duration
	logger *logging.Logger
}

// NewDuplicateChecker builds a checker with the given window in hours.
// Non-positive windows are rejected.
func NewDuplicateChecker(store Store, windowHours int, logger *logging.Logger) (*DuplicateChecker, error) {
	if windowHours <= 0 {
		return nil, errors.New("leads: duplicate window must be greater than 0")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DuplicateChecker{
		store:  store,
		window: time.Duration(windowHours) * time.Hour,
		logger: logger,
	}, nil
}

// Window reports the configured trailing span.
func (c *DuplicateChecker) Window() time.Duration {
	return c.window
}

// IsRecentDuplicate checks the store for a matching lead newer than
// now - window. A failed query is treated as no duplicate: a false negative
// only risks a duplicate contact, while failing closed would drop real leads
// whenever the store hiccups.
func (c *DuplicateChecker) IsRecentDuplicate(ctx context.Context, field MatchField, value string) bool {
	since := time.Now().UTC().Add(-c.window)
	matches, err := c.store.QueryRecent(ctx, field, value, since)
	if err != nil {
		c.logger.Error("duplicate check failed, allowing submission", "error", err, "field", string(field))
		return false
	}
	if len(matches) > 0 {
		c.logger.Info("duplicate submission detected", "field", string(field))
		return true
	}
	return false
}
