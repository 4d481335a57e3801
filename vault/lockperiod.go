package vault

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// LockPeriod is the lock duration selector understood by TimeLockedVault.
type LockPeriod uint8

const (
	OneMonth LockPeriod = iota
	ThreeMonths
	SixMonths
	OneYear
)

const day = 24 * time.Hour

var ErrInvalidLockPeriod = errors.New("invalid lock period")

var lockPeriods = [...]struct {
	name     string
	duration time.Duration
}{
	OneMonth:    {"one-month", 30 * day},
	ThreeMonths: {"three-months", 90 * day},
	SixMonths:   {"six-months", 180 * day},
	OneYear:     {"one-year", 365 * day},
}

func ParseLockPeriod(n int) (LockPeriod, error) {
	if n < 0 || n >= len(lockPeriods) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLockPeriod, n)
	}
	return LockPeriod(n), nil
}

func (p LockPeriod) Valid() bool {
	return int(p) < len(lockPeriods)
}

// Duration is how far the chain clock must move for the lock to expire.
func (p LockPeriod) Duration() time.Duration {
	if !p.Valid() {
		return 0
	}
	return lockPeriods[p].duration
}

func (p LockPeriod) String() string {
	if !p.Valid() {
		return fmt.Sprintf("LockPeriod(%d)", uint8(p))
	}
	return lockPeriods[p].name
}

// Clock reads and moves the chain time.
type Clock interface {
	ChainTime(ctx context.Context) (time.Time, error)
	AdvanceTime(ctx context.Context, d time.Duration) error
}

// FastForward moves the chain clock past the end of period and returns the
// chain time before and after.
func FastForward(ctx context.Context, clock Clock, period LockPeriod) (before, after time.Time, err error) {
	if !period.Valid() {
		return before, after, fmt.Errorf("%w: %d", ErrInvalidLockPeriod, period)
	}
	if before, err = clock.ChainTime(ctx); err != nil {
		return before, after, err
	}
	if err = clock.AdvanceTime(ctx, period.Duration()); err != nil {
		return before, after, fmt.Errorf("fast forward %s: %w", period, err)
	}
	after, err = clock.ChainTime(ctx)
	return before, after, err
}
