// Package locker serializes booking writes per room.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrLockTimeout = errors.New("timed out waiting for room lock")

// Locker grants exclusive ownership of a key until the returned unlock is called.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func RoomKey(roomID uint) string {
	return fmt.Sprintf("lock:room:%d", roomID)
}

// LockAll acquires every distinct key in sorted order so two callers locking
// the same pair of rooms cannot deadlock.
func LockAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, k := range sorted {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
