package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/google/uuid"
)

// childIDNamespace seeds derived item and milestone IDs.
var childIDNamespace = uuid.MustParse("6f1c1c52-8a4e-4b7b-9d0e-3f1f2a9b7c10")

// passthrough lists the errors callers are expected to branch on.
var passthrough = []error{
	domain.ErrNotFound,
	domain.ErrInvalidRange,
	domain.ErrInvalidPlanType,
	domain.ErrConflict,
	context.Canceled,
	context.DeadlineExceeded,
}

// storeErr adds op context to err and marks anything unexpected as
// domain.ErrStoreUnavailable.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// assignChildIDs fills empty IDs with values derived from the plan ID, kind
// and position, so saving the same arrays twice yields the same rows. Caller
// IDs are kept unless repeated; derived IDs skip over any ID already taken.
func assignChildIDs(planID, kind string, ids []string) []string {
	out := make([]string, len(ids))
	taken := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" || taken[id] {
			continue
		}
		out[i] = id
		taken[id] = true
	}
	for i := range out {
		if out[i] != "" {
			continue
		}
		for attempt := 0; ; attempt++ {
			name := planID + "/" + kind + "/" + strconv.Itoa(i)
			if attempt > 0 {
				name += "/" + strconv.Itoa(attempt)
			}
			id := uuid.NewSHA1(childIDNamespace, []byte(name)).String()
			if !taken[id] {
				out[i] = id
				taken[id] = true
				break
			}
		}
	}
	return out
}
