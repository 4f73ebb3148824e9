package sheet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

type fakeContainer struct {
	entry       Entry
	opts        Options
	onDismissed func()
	presents    int
	dismisses   int
}

func (f *fakeContainer) Present() { f.presents++ }
func (f *fakeContainer) Dismiss() { f.dismisses++ }

// finish simulates the end of the exit animation.
func (f *fakeContainer) finish() { f.onDismissed() }

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasRunning := !t.stopped
	t.stopped = true
	return wasRunning
}

func (t *fakeTimer) fire() {
	if !t.stopped {
		t.fn()
	}
}

type harness struct {
	composer   *Composer
	containers map[string]*fakeContainer
	timers     []*fakeTimer
	stuck      []Entry
	dismissed  []Entry
}

func newHarness(t *testing.T, debug bool) *harness {
	t.Helper()
	h := &harness{containers: make(map[string]*fakeContainer)}

	onDismiss := func(e Entry) { h.dismissed = append(h.dismissed, e) }
	c, err := NewComposer(Config{
		Descriptors: []Descriptor{
			{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
			{Name: routes.ExplainSheet, Options: Options{Height: 0.5, OnDismiss: onDismiss}},
			{Name: routes.ExpandedAssetSheet, Options: Options{Height: 0.95, ScrollEnabled: true, OnDismiss: onDismiss}},
			{Name: routes.SettingsSheet, Options: Options{BackdropOpacity: 1}},
		},
		Factory: func(entry Entry, opts Options, onDismissed func()) Container {
			fc := &fakeContainer{entry: entry, opts: opts, onDismissed: onDismissed}
			h.containers[entry.Key] = fc
			return fc
		},
		Debug:       debug,
		LeakTimeout: time.Second,
		OnStuck:     func(e Entry) { h.stuck = append(h.stuck, e) },
		AfterFunc: func(d time.Duration, f func()) Timer {
			ft := &fakeTimer{fn: f}
			h.timers = append(h.timers, ft)
			return ft
		},
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	h.composer = c
	return h
}

func TestNewComposer_Validation(t *testing.T) {
	factory := func(Entry, Options, func()) Container { return &fakeContainer{} }

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "no factory", cfg: Config{}, want: ErrNoFactory},
		{name: "no root", cfg: Config{Factory: factory, Descriptors: []Descriptor{{Name: routes.ExplainSheet}}}, want: ErrNoRoot},
		{
			name: "two roots",
			cfg: Config{Factory: factory, Descriptors: []Descriptor{
				{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
				{Name: routes.SwipeLayout, Options: Options{Root: true}},
			}},
			want: ErrMultipleRoots,
		},
		{
			name: "duplicate",
			cfg: Config{Factory: factory, Descriptors: []Descriptor{
				{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
				{Name: routes.ExplainSheet},
				{Name: routes.ExplainSheet},
			}},
			want: ErrDuplicateDescriptor,
		},
		{
			name: "unknown route",
			cfg: Config{Factory: factory, Descriptors: []Descriptor{
				{Name: routes.Route("Nope"), Options: Options{Root: true}},
			}},
			want: ErrUnknownRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposer(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComposer_MainAlwaysMounted(t *testing.T) {
	h := newHarness(t, false)

	main := h.composer.Main()
	assert.Equal(t, routes.MainNavigatorWrapper, main.Name)
	assert.True(t, strings.HasPrefix(main.Key, "MainNavigatorWrapper-"))
	assert.True(t, h.composer.IsMounted(main.Key))
	assert.Empty(t, h.composer.Mounted())

	h.composer.DismissAll()
	_, ok := h.composer.DismissTop()
	assert.False(t, ok)
	assert.True(t, h.composer.IsMounted(main.Key))
}

func TestComposer_OpenMountsAndPresents(t *testing.T) {
	h := newHarness(t, false)

	entry, err := h.composer.Open(routes.ExplainSheet, routes.ExplainParams{Kind: "gas"})
	require.NoError(t, err)

	assert.Equal(t, []string{entry.Key}, h.composer.Mounted())
	fc := h.containers[entry.Key]
	require.NotNil(t, fc)
	assert.Equal(t, 1, fc.presents)
	assert.Equal(t, 0.5, fc.opts.Height)
	assert.Equal(t, routes.ExplainParams{Kind: "gas"}, fc.entry.Params)
}

func TestComposer_OpenRejectsUnregisteredAndRoot(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.composer.Open(routes.SendSheet, nil)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = h.composer.Open(routes.MainNavigatorWrapper, nil)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = h.composer.Open(routes.ExplainSheet, routes.SendParams{})
	assert.ErrorIs(t, err, routes.ErrParamsMismatch)
	assert.Empty(t, h.composer.Mounted())
}

func TestComposer_TwoPhaseUnmount(t *testing.T) {
	h := newHarness(t, false)

	entry, err := h.composer.Open(routes.ExplainSheet, nil)
	require.NoError(t, err)

	require.True(t, h.composer.Dismiss(entry.Key))

	fc := h.containers[entry.Key]
	assert.Equal(t, 1, fc.dismisses)
	assert.Equal(t, []string{entry.Key}, h.composer.Mounted(), "still mounted while the exit animation runs")
	assert.Equal(t, []string{entry.Key}, h.composer.Dismissing())
	assert.Empty(t, h.dismissed)

	fc.finish()

	assert.Empty(t, h.composer.Mounted())
	assert.Empty(t, h.composer.Dismissing())
	assert.False(t, h.composer.IsMounted(entry.Key))
	require.Len(t, h.dismissed, 1)
	assert.Equal(t, entry.Key, h.dismissed[0].Key)

	// A late duplicate callback is ignored.
	fc.finish()
	assert.Len(t, h.dismissed, 1)
}

func TestComposer_IndependentSheets(t *testing.T) {
	h := newHarness(t, false)

	first, _ := h.composer.Open(routes.ExplainSheet, nil)
	second, _ := h.composer.Open(routes.ExpandedAssetSheet, routes.ExpandedAssetParams{AssetID: "eth"})
	third, _ := h.composer.Open(routes.SettingsSheet, nil)

	assert.Equal(t, []string{first.Key, second.Key, third.Key}, h.composer.Mounted())

	h.composer.Dismiss(second.Key)
	h.composer.DismissTop()

	assert.Equal(t, 0, h.containers[first.Key].dismisses)
	assert.Equal(t, 1, h.containers[second.Key].dismisses)
	assert.Equal(t, 1, h.containers[third.Key].dismisses)

	h.containers[third.Key].finish()
	assert.Equal(t, []string{first.Key, second.Key}, h.composer.Mounted())

	h.containers[second.Key].finish()
	assert.Equal(t, []string{first.Key}, h.composer.Mounted())
}

func TestComposer_UserDismissRemovesFromState(t *testing.T) {
	h := newHarness(t, false)

	entry, _ := h.composer.Open(routes.ExpandedAssetSheet, nil)
	require.Equal(t, 1, h.composer.Stack().Len())

	// Swipe-down: the container finishes without the composer asking.
	h.containers[entry.Key].finish()

	assert.Equal(t, 0, h.composer.Stack().Len())
	assert.Empty(t, h.composer.Mounted())
	assert.Equal(t, 0, h.containers[entry.Key].dismisses)
	require.Len(t, h.dismissed, 1)
}

func TestComposer_ReappearingKeyIsPresentedAgain(t *testing.T) {
	h := newHarness(t, false)

	entry, _ := h.composer.Open(routes.ExplainSheet, nil)
	main := h.composer.Main()
	h.composer.Dismiss(entry.Key)

	h.composer.Sync([]Entry{main, entry})

	fc := h.containers[entry.Key]
	assert.Equal(t, 2, fc.presents)
	assert.Empty(t, h.composer.Dismissing())
	assert.Equal(t, []string{entry.Key}, h.composer.Mounted())
}

func TestComposer_StuckSheetIsReportedInDebug(t *testing.T) {
	h := newHarness(t, true)

	entry, _ := h.composer.Open(routes.ExplainSheet, nil)
	h.composer.Dismiss(entry.Key)
	require.Len(t, h.timers, 1)

	h.timers[0].fire()

	require.Len(t, h.stuck, 1)
	assert.Equal(t, entry.Key, h.stuck[0].Key)
	// Reporting never forces an unmount.
	assert.Equal(t, []string{entry.Key}, h.composer.Mounted())
}

func TestComposer_CompletedDismissStopsLeakTimer(t *testing.T) {
	h := newHarness(t, true)

	entry, _ := h.composer.Open(routes.ExplainSheet, nil)
	h.composer.Dismiss(entry.Key)
	h.containers[entry.Key].finish()

	require.Len(t, h.timers, 1)
	assert.True(t, h.timers[0].stopped)
	h.timers[0].fire()
	assert.Empty(t, h.stuck)
}

func TestComposer_NoLeakTimersOutsideDebug(t *testing.T) {
	h := newHarness(t, false)

	entry, _ := h.composer.Open(routes.ExplainSheet, nil)
	h.composer.Dismiss(entry.Key)

	assert.Empty(t, h.timers)
}

func TestComposer_RealTimers(t *testing.T) {
	defer goleak.VerifyNone(t)

	stuck := make(chan Entry, 1)
	var container *fakeContainer
	c, err := NewComposer(Config{
		Descriptors: []Descriptor{
			{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
			{Name: routes.ExplainSheet},
		},
		Factory: func(entry Entry, opts Options, onDismissed func()) Container {
			container = &fakeContainer{entry: entry, onDismissed: onDismissed}
			return container
		},
		Debug:       true,
		LeakTimeout: 10 * time.Millisecond,
		OnStuck:     func(e Entry) { stuck <- e },
	})
	require.NoError(t, err)
	defer c.Close()

	entry, _ := c.Open(routes.ExplainSheet, nil)
	c.Dismiss(entry.Key)

	select {
	case got := <-stuck:
		assert.Equal(t, entry.Key, got.Key)
	case <-time.After(time.Second):
		t.Fatal("stuck sheet was not reported")
	}

	container.finish()
	assert.Empty(t, c.Mounted())
}

func TestComposer_FactoryMayCallBack(t *testing.T) {
	var c *Composer
	var seen []bool
	var err error
	c, err = NewComposer(Config{
		Descriptors: []Descriptor{
			{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
			{Name: routes.ExplainSheet},
		},
		Factory: func(e Entry, _ Options, _ func()) Container {
			seen = append(seen, c.IsMounted(e.Key))
			_ = c.Mounted()
			_ = c.Dismissing()
			return &fakeContainer{entry: e}
		},
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	done := make(chan Entry, 1)
	go func() {
		e, err := c.Open(routes.ExplainSheet, nil)
		assert.NoError(t, err)
		done <- e
	}()

	select {
	case e := <-done:
		assert.Equal(t, []bool{true}, seen)
		assert.True(t, c.IsMounted(e.Key))
	case <-time.After(2 * time.Second):
		t.Fatal("Open did not return while the factory called back into the composer")
	}
}

func TestComposer_ContainerWithoutAnimation(t *testing.T) {
	var dismissed []Entry
	presented := 0

	c, err := NewComposer(Config{
		Descriptors: []Descriptor{
			{Name: routes.MainNavigatorWrapper, Options: Options{Root: true}},
			{Name: routes.ExplainSheet, Options: Options{OnDismiss: func(e Entry) { dismissed = append(dismissed, e) }}},
		},
		Factory: func(e Entry, _ Options, onDismissed func()) Container {
			// Closes itself before it was ever shown.
			onDismissed()
			fc := &fakeContainer{entry: e}
			return &countingContainer{fakeContainer: fc, presented: &presented}
		},
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	e, err := c.Open(routes.ExplainSheet, nil)
	require.NoError(t, err)

	assert.False(t, c.IsMounted(e.Key))
	assert.Empty(t, c.Mounted())
	assert.False(t, c.Stack().Contains(e.Key))
	assert.Zero(t, presented)
	require.Len(t, dismissed, 1)
	assert.Equal(t, e.Key, dismissed[0].Key)
}

type countingContainer struct {
	*fakeContainer
	presented *int
}

func (c *countingContainer) Present() { *c.presented++ }
