// Package navcore coordinates navigation for an app that mixes platform
// (native) screens, bottom sheets and in-memory virtual navigators.
//
// Init wires a process-wide route tracker behind a transition gate. Calls made
// before the platform navigator is bound, or while a dismissal animation is
// in flight, are dropped or queued instead of failing.
package navcore

import (
	"log/slog"
	"os"
	"time"

	"github.com/navcore-dev/navcore/pkg/navcore/constants"
	"github.com/navcore-dev/navcore/pkg/navcore/gate"
	"github.com/navcore-dev/navcore/pkg/navcore/internal"
	"github.com/navcore-dev/navcore/pkg/navcore/router"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
	"github.com/navcore-dev/navcore/pkg/navcore/sheet"
	"github.com/navcore-dev/navcore/pkg/navcore/tracker"
)

// Options configures navcore initialization.
type Options struct {
	LogPath          string         // Full path for the log file including filename (creates parent directories)
	LogLevel         string         // debug, info, warn or error; NAVCORE_LOG_LEVEL takes precedence
	Debug            bool           // Panic on programmer errors and report stuck sheets
	NativeCooldown   time.Duration  // Debounce window for native routes; 0 uses the default, negative disables
	SheetLeakTimeout time.Duration  // How long a dismissing sheet may stay mounted; 0 uses the default
	Scheduler        gate.Scheduler // How queued navigations are flushed after a dismissal; nil is gate.Immediate
	Clock            func() time.Time
}

// Navigation is the entry point apps navigate through.
type Navigation struct {
	options Options
	logger  *slog.Logger
	tracker *tracker.Tracker
	gate    *gate.Gate
}

// Init sets up logging and returns a Navigation with an unbound tracker.
// Must be called before any other navcore function that logs.
func Init(options Options) *Navigation {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	switch {
	case os.Getenv(constants.LogLevelEnvVar) != "":
		internal.SetRawLogLevel(os.Getenv(constants.LogLevelEnvVar))
	case options.LogLevel != "":
		internal.SetRawLogLevel(options.LogLevel)
	case constants.IsDevMode():
		internal.SetLogLevel(slog.LevelDebug)
	}

	if constants.IsDevMode() {
		options.Debug = true
	}

	logger := internal.GetLogger()
	t := tracker.New(logger)
	n := &Navigation{
		options: options,
		logger:  logger,
		tracker: t,
		gate: gate.New(t, gate.Config{
			NativeCooldown: options.NativeCooldown,
			Clock:          options.Clock,
			Scheduler:      options.Scheduler,
			Logger:         logger,
			Debug:          options.Debug,
		}),
	}

	logger.Debug("navcore initialized",
		"debug", options.Debug,
		"native_cooldown", options.NativeCooldown.String(),
		"sheet_leak_timeout", options.SheetLeakTimeout.String())
	return n
}

// SetTopLevelNavigator binds the platform navigator. Passing nil unbinds it.
func (n *Navigation) SetTopLevelNavigator(h tracker.Handle) {
	n.tracker.SetTopLevelNavigator(h)
}

// Navigate pushes route through the gate.
func (n *Navigation) Navigate(route routes.Route, params routes.Params) {
	n.gate.Navigate(route, params)
}

// Replace replaces the focused route through the gate.
func (n *Navigation) Replace(route routes.Route, params routes.Params) {
	n.gate.Navigate(route, params, gate.Replace())
}

func (n *Navigation) GoBack() {
	n.gate.GoBack()
}

// DispatchAction forwards a raw action. Actions bypass the gate.
func (n *Navigation) DispatchAction(action tracker.Action) {
	n.gate.DispatchAction(action)
}

// OnWillPop must be called when a dismissal animation starts.
func (n *Navigation) OnWillPop() {
	n.gate.OnWillPop()
}

// OnDidPop must be called when a dismissal animation ends.
func (n *Navigation) OnDidPop() {
	n.gate.OnDidPop()
}

func (n *Navigation) ActiveRoute() (tracker.RouteState, bool) {
	return n.tracker.ActiveRoute()
}

func (n *Navigation) ActiveRouteName() (routes.Route, bool) {
	return n.tracker.ActiveRouteName()
}

func (n *Navigation) Tracker() *tracker.Tracker {
	return n.tracker
}

func (n *Navigation) Gate() *gate.Gate {
	return n.gate
}

func (n *Navigation) Debug() bool {
	return n.options.Debug
}

// NewSheetComposer creates a sheet Composer that shares this Navigation's
// logger, debug mode and leak timeout.
func (n *Navigation) NewSheetComposer(descriptors []sheet.Descriptor, factory sheet.ContainerFactory, onStuck func(sheet.Entry)) (*sheet.Composer, error) {
	c, err := sheet.NewComposer(sheet.Config{
		Descriptors: descriptors,
		Factory:     factory,
		LeakTimeout: n.options.SheetLeakTimeout,
		Debug:       n.options.Debug,
		OnStuck:     onStuck,
		Logger:      n.logger.With("navigator", "sheets"),
	})
	if err != nil {
		return nil, NewNavigationError("new_sheet_composer", "", err)
	}
	return c, nil
}

// NewVirtualNavigator creates a virtual navigator that inherits the
// Navigation's debug mode and logger unless cfg sets its own.
func NewVirtualNavigator[R comparable, P any](n *Navigation, cfg router.Config[R, P]) (*router.Navigator[R, P], error) {
	if n.options.Debug {
		cfg.Debug = true
	}
	if cfg.Logger == nil {
		cfg.Logger = n.logger.With("navigator", "virtual")
	}
	nav, err := router.New(cfg)
	if err != nil {
		return nil, NewNavigationError("new_virtual_navigator", "", err)
	}
	return nav, nil
}

func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

func SetRawLogLevel(rawLevel string) {
	internal.SetRawLogLevel(rawLevel)
}

// Close releases the log file, if any.
func Close() {
	internal.CloseLogger()
}
