package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
)

var errLocked = errors.New("config file is locked by another process")

// lockTimeout bounds how long Save waits for a concurrent kc process.
const lockTimeout = 5 * time.Second

// withLock runs fn while holding an advisory lock next to path.
func withLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = lockTimeout

	err := backoff.Retry(func() error {
		locked, err := lock.TryLock()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !locked {
			return errLocked
		}
		return nil
	}, b)
	if err != nil {
		return fmt.Errorf("failed to acquire config lock: %w", err)
	}
	defer lock.Unlock()

	return fn()
}
