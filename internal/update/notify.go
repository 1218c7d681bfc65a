package update

import (
	"upnotify/internal/notify"
)

// NotifyOptions tune how a notice is rendered and delivered.
type NotifyOptions struct {
	// Immediate prints now instead of when the process exits.
	Immediate bool
	// Message replaces the default template. Placeholders: {packageName},
	// {currentVersion}, {latestVersion}, {updateCommand}.
	Message string
	// IsGlobal and IsYarnGlobal override install detection when non-nil.
	IsGlobal     *bool
	IsYarnGlobal *bool
	// Box overrides the frame drawn around the notice.
	Box *notify.BoxOptions
}

// Notify shows the cached update, if there is one worth showing. Anything
// that rules the notice out is silent. It returns n for chaining.
func (n *Notifier) Notify(opts NotifyOptions) *Notifier {
	gate := notify.Gate{
		Interactive:            n.rt.Interactive,
		InPackageManagerScript: n.rt.InPackageManagerScript(),
		AllowInScript:          n.cfg.ShouldNotifyInNpmScript,
		Update:                 n.update,
	}
	if !notify.ShouldNotify(gate) {
		return n
	}

	install := notify.Install{
		YarnGlobal: boolOr(opts.IsYarnGlobal, n.rt.IsYarnGlobal),
		Global:     boolOr(opts.IsGlobal, n.rt.IsInstalledGlobally),
		HasYarn:    n.rt.HasYarn(),
	}

	box := notify.DefaultBoxOptions()
	if opts.Box != nil {
		box = *opts.Box
	}

	r := notify.NewRenderer(n.stderr)
	msg := r.UpdateMessage(opts.Message, map[string]string{
		notify.FieldPackageName:    n.cfg.PackageName,
		notify.FieldCurrentVersion: n.update.Current,
		notify.FieldLatestVersion:  n.update.Latest,
		notify.FieldUpdateCommand:  notify.InstallCommand(n.cfg.PackageName, install),
	}, box)

	notify.NewEmitter(n.stderr, n.hooks).Emit(msg, !opts.Immediate)
	return n
}

func boolOr(override *bool, detect func() bool) bool {
	if override != nil {
		return *override
	}
	return detect()
}
