package update

import (
	"context"
	"time"

	"upnotify/internal/config"
	"upnotify/internal/version"
)

// Check consumes a result left by an earlier background check and, once the
// interval has elapsed, starts a new one without waiting for it.
func (n *Notifier) Check() {
	if n.store == nil || n.disabled {
		return
	}
	st, err := n.store.State()
	if err != nil || st.OptOut {
		return
	}

	// Take the cached result before anything else can fail, so it is shown
	// at most once even if the rest of the check goes wrong.
	upd, err := n.store.TakeUpdate()
	if err != nil {
		n.logger.Debug("consume cached update", "err", err)
	}
	if upd != nil {
		// the cached current version is stale; the running binary is the truth
		upd.Current = n.cfg.PackageVersion
		n.update = upd
	}

	if n.cfg.SchedulingDisabled() || n.store.Created() {
		return
	}
	now := n.now()
	if now.Sub(time.UnixMilli(st.LastUpdateCheck)) < n.cfg.Interval() {
		return
	}

	if err := n.store.RecordCheck(now, nil); err != nil {
		n.logger.Debug("record check start", "err", err)
		return
	}
	n.spawner.SpawnDetachedCheck(n.cfg)
}

// FetchInfo looks up the latest version synchronously.
func (n *Notifier) FetchInfo(ctx context.Context) (Result, error) {
	return fetchInfo(ctx, n.cfg, n.lookup)
}

// fetchInfo resolves the dist-tag and classifies the release. When the
// versions do not differ in a way semver can name, the type is the dist-tag.
func fetchInfo(ctx context.Context, cfg config.Config, lookup Lookup) (Result, error) {
	tag := cfg.Tag()
	latest, err := lookup.LatestVersion(ctx, cfg.PackageName, tag)
	if err != nil {
		return Result{}, &LookupError{Package: cfg.PackageName, DistTag: tag, Err: err}
	}

	typ := version.Diff(cfg.PackageVersion, latest)
	if typ == "" {
		typ = tag
	}
	return Result{
		Latest:  latest,
		Current: cfg.PackageVersion,
		Type:    typ,
		Name:    cfg.PackageName,
	}, nil
}
