package database

import (
	"context"
	"sort"
)

// Pinger is implemented by every backing store client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll pings each named dependency and returns the failures keyed by name.
func CheckAll(ctx context.Context, deps map[string]Pinger) map[string]error {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := make(map[string]error)
	for _, name := range names {
		if deps[name] == nil {
			continue
		}
		if err := deps[name].Ping(ctx); err != nil {
			failed[name] = err
		}
	}
	return failed
}
