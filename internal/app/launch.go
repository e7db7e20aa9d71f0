package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/dshills/subly-core/internal/storage"
)

// LastLaunchVersionKey is the config key holding the last started version
const LastLaunchVersionKey = "last_launch_version"

// First-launch notice
const (
	NoticeTitle = "Subly"
	NoticeBody  = "Notifications enabled"
)

// Notifier shows a system notification
type Notifier interface {
	Notify(title, body string) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(title, body string) error

func (f NotifierFunc) Notify(title, body string) error { return f(title, body) }

// LaunchInfo describes how this start relates to the previous one
type LaunchInfo struct {
	FirstLaunch     bool
	Upgraded        bool
	PreviousVersion string
}

// RecordLaunch compares the running version with the recorded one, shows
// the first-launch notice when nothing was recorded, and stores the running
// version. Call it after Bootstrap so the config table exists.
func (a *App) RecordLaunch(ctx context.Context, notifier Notifier) (LaunchInfo, error) {
	var info LaunchInfo

	previous, err := a.Storage.GetConfig(ctx, LastLaunchVersionKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		info.FirstLaunch = true
	case err != nil:
		return info, fmt.Errorf("failed to read launch record: %w", err)
	default:
		info.PreviousVersion = previous
		info.Upgraded = isUpgrade(previous, a.Version)
	}

	if info.FirstLaunch {
		if err := notifier.Notify(NoticeTitle, NoticeBody); err != nil {
			a.logger.Warn("first launch notification failed", "error", err)
		}
		a.logger.Info("first launch", "version", a.Version)
	} else if info.Upgraded {
		a.logger.Info("application upgraded", "from", previous, "to", a.Version)
	}

	if err := a.Storage.SetConfig(ctx, LastLaunchVersionKey, a.Version); err != nil {
		return info, fmt.Errorf("failed to write launch record: %w", err)
	}
	return info, nil
}

// isUpgrade reports whether current is a newer semantic version than
// previous. Unparseable versions never count as upgrades.
func isUpgrade(previous, current string) bool {
	prev, err := semver.NewVersion(previous)
	if err != nil {
		return false
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	return cur.GreaterThan(prev)
}
