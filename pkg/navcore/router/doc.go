// Package router provides virtual navigators: in-memory navigation state
// machines for screens that must feel independent without being pushed onto
// the platform navigator, such as the pages of a horizontal pager.
//
// A Navigator tracks the active route, a history of previously active routes
// and the last params given to each route. It is generic over the route type
// and the params type, so each call site declares its own closed route set.
//
// # Basic Usage
//
//	type Tab string
//
//	const (
//	    TabWallet   Tab = "wallet"
//	    TabDiscover Tab = "discover"
//	    TabProfile  Tab = "profile"
//	)
//
//	type TabParams struct {
//	    ScrollToTop bool
//	}
//
//	nav, err := router.New(router.Config[Tab, TabParams]{
//	    InitialRoute: TabWallet,
//	    Routes:       []Tab{TabWallet, TabDiscover, TabProfile},
//	})
//
//	nav.Navigate(TabDiscover)     // history: [wallet]
//	nav.GoBack()                  // active: wallet, history: []
//
// # Params
//
// Params persist per route across navigations. Storing params equal to the
// stored ones is a no-op, so OnParamsChange only fires on real changes.
// Equality defaults to go-cmp, unexported fields included; pass Config.Equal
// to compare differently.
//
// # Pagers
//
// Routes are declared in pager order. HandlePagerIndexChange maps a settled
// pager index back to a route and decides whether the swipe was a back or a
// forward navigation, so the pager itself never needs to know about history.
//
// # Side-channel
//
// Every route change is published on Config.Channel. Several navigators can
// share one channel, which lets cross-cutting handlers such as the hardware
// back button follow whichever navigator moved last.
package router
