package router

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navcore-dev/navcore/pkg/navcore/observer"
)

type params struct {
	A int
	B string
}

func newNav(t *testing.T, cfg Config[string, params]) *Navigator[string, params] {
	t.Helper()
	if cfg.Routes == nil {
		cfg.Routes = []string{"A", "B", "C"}
	}
	if cfg.InitialRoute == "" {
		cfg.InitialRoute = cfg.Routes[0]
	}
	n, err := New(cfg)
	require.NoError(t, err)
	return n
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config[string, params]
		want error
	}{
		{name: "no routes", cfg: Config[string, params]{InitialRoute: "A"}, want: ErrNoRoutes},
		{name: "duplicate", cfg: Config[string, params]{InitialRoute: "A", Routes: []string{"A", "A"}}, want: ErrDuplicateRoute},
		{name: "initial undeclared", cfg: Config[string, params]{InitialRoute: "Z", Routes: []string{"A"}}, want: ErrInitialRouteUndeclared},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNavigate_SelfTransitionDoesNotTouchHistory(t *testing.T) {
	n := newNav(t, Config[string, params]{Routes: []string{"X", "Y"}})

	require.NoError(t, n.NavigateWithParams("X", params{A: 1}))
	require.NoError(t, n.NavigateWithParams("X", params{A: 1}))

	state := n.State()
	assert.Empty(t, state.History)
	assert.Equal(t, "X", state.ActiveRoute)
	assert.Equal(t, params{A: 1}, state.Params["X"])
}

func TestNavigate_HistoryPushPopSymmetry(t *testing.T) {
	n := newNav(t, Config[string, params]{Routes: []string{"X", "Y"}})

	require.NoError(t, n.Navigate("Y"))
	assert.Equal(t, "Y", n.ActiveRoute())
	assert.Equal(t, []string{"X"}, n.State().History)

	n.GoBack()
	assert.Equal(t, "X", n.ActiveRoute())
	assert.Empty(t, n.State().History)

	// Empty history: no-op.
	n.GoBack()
	assert.Equal(t, "X", n.ActiveRoute())
}

func TestNavigate_HistoryTopNeverActive(t *testing.T) {
	n := newNav(t, Config[string, params]{})

	steps := []func(){
		func() { _ = n.Navigate("B") },
		func() { _ = n.Navigate("B") },
		func() { _ = n.Navigate("C") },
		func() { _ = n.Navigate("A") },
		func() { n.GoBack() },
		func() { _ = n.Navigate("B") },
		func() { n.GoBack() },
		func() { n.GoBack() },
	}
	for i, step := range steps {
		step()
		state := n.State()
		if len(state.History) > 0 {
			assert.NotEqual(t, state.ActiveRoute, state.History[len(state.History)-1], "step %d", i)
		}
	}
}

func TestParams_PersistAcrossNavigation(t *testing.T) {
	n := newNav(t, Config[string, params]{})

	require.NoError(t, n.SetParams("B", params{A: 7}))
	require.NoError(t, n.Navigate("B"))
	require.NoError(t, n.Navigate("C"))
	require.NoError(t, n.Navigate("B"))

	got, ok := n.Params("B")
	require.True(t, ok)
	assert.Equal(t, params{A: 7}, got)

	require.NoError(t, n.NavigateWithParams("C", params{B: "over"}))
	got, _ = n.Params("C")
	assert.Equal(t, params{B: "over"}, got)
}

func TestSetParams_OnlyNotifiesOnChange(t *testing.T) {
	var changes []params
	n := newNav(t, Config[string, params]{
		OnParamsChange: func(_ string, p params) { changes = append(changes, p) },
	})

	require.NoError(t, n.SetParams("A", params{A: 1}))
	require.NoError(t, n.SetParams("A", params{A: 1}))
	require.NoError(t, n.NavigateWithParams("A", params{A: 1}))
	require.NoError(t, n.SetParams("A", params{A: 2}))

	assert.Equal(t, []params{{A: 1}, {A: 2}}, changes)
}

func TestSetParams_CustomEqual(t *testing.T) {
	calls := 0
	n := newNav(t, Config[string, params]{
		Equal:          func(a, b params) bool { return a.A == b.A },
		OnParamsChange: func(string, params) { calls++ },
	})

	require.NoError(t, n.SetParams("A", params{A: 1, B: "x"}))
	require.NoError(t, n.SetParams("A", params{A: 1, B: "y"}))

	assert.Equal(t, 1, calls)
	got, _ := n.Params("A")
	assert.Equal(t, "x", got.B)
}

type tabParams struct {
	scrollToTop bool
	section     string
}

func TestSetParams_UnexportedFields(t *testing.T) {
	var changes []tabParams
	n, err := New(Config[string, tabParams]{
		InitialRoute:   "wallet",
		Routes:         []string{"wallet", "discover"},
		OnParamsChange: func(_ string, p tabParams) { changes = append(changes, p) },
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		require.NoError(t, n.SetParams("wallet", tabParams{scrollToTop: true}))
		require.NoError(t, n.SetParams("wallet", tabParams{scrollToTop: true}))
		require.NoError(t, n.NavigateWithParams("wallet", tabParams{scrollToTop: true, section: "nfts"}))
	})

	assert.Equal(t, []tabParams{
		{scrollToTop: true},
		{scrollToTop: true, section: "nfts"},
	}, changes)
}

func TestReset_RestoresInitialSnapshot(t *testing.T) {
	var changes []RouteChange[string]
	channel := &observer.Registry[RouteChange[string]]{}
	channel.Subscribe(func(c RouteChange[string]) { changes = append(changes, c) })

	n := newNav(t, Config[string, params]{Channel: channel})

	require.NoError(t, n.NavigateWithParams("B", params{A: 1}))
	require.NoError(t, n.Navigate("C"))
	require.NoError(t, n.SetParams("A", params{B: "z"}))

	n.Reset()

	want := State[string, params]{ActiveRoute: "A", History: []string{}, Params: map[string]params{}}
	if diff := cmp.Diff(want, n.State()); diff != "" {
		t.Errorf("state after reset (-want +got):\n%s", diff)
	}
	assert.Equal(t, RouteChange[string]{From: "C", To: "A"}, changes[len(changes)-1])
}

func TestUnknownRoute(t *testing.T) {
	t.Run("ignored in release", func(t *testing.T) {
		n := newNav(t, Config[string, params]{})
		err := n.Navigate("Z")
		assert.ErrorIs(t, err, ErrUnknownRoute)
		assert.ErrorIs(t, n.SetParams("Z", params{}), ErrUnknownRoute)
		assert.Equal(t, "A", n.ActiveRoute())
		assert.Empty(t, n.State().History)
	})

	t.Run("panics in debug", func(t *testing.T) {
		n := newNav(t, Config[string, params]{Debug: true})
		assert.Panics(t, func() { _ = n.Navigate("Z") })
	})
}

func TestRouteChangeNotifications(t *testing.T) {
	var active []string
	var changes []RouteChange[string]
	channel := &observer.Registry[RouteChange[string]]{}
	channel.Subscribe(func(c RouteChange[string]) { changes = append(changes, c) })

	n := newNav(t, Config[string, params]{
		OnRouteChange: func(r string) { active = append(active, r) },
		Channel:       channel,
	})

	require.NoError(t, n.Navigate("A")) // self-transition, silent
	require.NoError(t, n.Navigate("B"))
	n.GoBack()

	assert.Equal(t, []string{"B", "A"}, active)
	assert.Equal(t, []RouteChange[string]{
		{From: "A", To: "B"},
		{From: "B", To: "A", Back: true},
	}, changes)
}

func TestHandlePagerIndexChange(t *testing.T) {
	t.Run("previous route counts as back", func(t *testing.T) {
		n := newNav(t, Config[string, params]{})
		require.NoError(t, n.Navigate("B"))

		require.NoError(t, n.HandlePagerIndexChange(0))

		assert.Equal(t, "A", n.ActiveRoute())
		assert.Empty(t, n.State().History)
	})

	t.Run("other route counts as forward", func(t *testing.T) {
		n := newNav(t, Config[string, params]{})
		require.NoError(t, n.Navigate("B"))

		require.NoError(t, n.HandlePagerIndexChange(2))

		assert.Equal(t, "C", n.ActiveRoute())
		assert.Equal(t, []string{"A", "B"}, n.State().History)
	})

	t.Run("active route only notifies", func(t *testing.T) {
		var active []string
		n := newNav(t, Config[string, params]{
			OnRouteChange: func(r string) { active = append(active, r) },
		})

		require.NoError(t, n.HandlePagerIndexChange(0))

		assert.Equal(t, []string{"A"}, active)
		assert.Empty(t, n.State().History)
	})

	t.Run("out of range", func(t *testing.T) {
		n := newNav(t, Config[string, params]{})
		assert.ErrorIs(t, n.HandlePagerIndexChange(3), ErrIndexOutOfRange)
		assert.ErrorIs(t, n.HandlePagerIndexChange(-1), ErrIndexOutOfRange)
		assert.Equal(t, "A", n.ActiveRoute())
	})
}

func TestIndexAndKeys(t *testing.T) {
	n := newNav(t, Config[string, params]{KeyPrefix: "swipe-"})

	assert.Equal(t, 1, n.IndexOf("B"))
	assert.Equal(t, -1, n.IndexOf("Z"))
	r, ok := n.RouteAt(2)
	assert.True(t, ok)
	assert.Equal(t, "C", r)
	assert.Equal(t, "swipe-B", n.Key("B"))
	assert.Equal(t, []string{"A", "B", "C"}, n.Routes())
	assert.True(t, n.IsRouteActive("A"))

	def := newNav(t, Config[string, params]{})
	assert.Equal(t, "virtual-A", def.Key("A"))
}

func TestIndependentInstances(t *testing.T) {
	a := newNav(t, Config[string, params]{})
	b := newNav(t, Config[string, params]{})

	require.NoError(t, a.Navigate("C"))

	assert.Equal(t, "C", a.ActiveRoute())
	assert.Equal(t, "A", b.ActiveRoute())
	assert.Empty(t, b.State().History)
}
