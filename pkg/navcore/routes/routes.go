// Package routes is the route catalog: every screen and sheet the app can
// navigate to, and the subset presented by the platform's native modal stack.
//
// The catalog is fixed at compile time. Lookups go through functions so the
// backing tables cannot be modified by callers.
package routes

import "sort"

// Route identifies a navigable screen or sheet.
type Route string

func (r Route) String() string {
	return string(r)
}

// Screens and sheets.
const (
	AddCashSheet              Route = "AddCashSheet"
	AddWalletNavigator        Route = "AddWalletNavigator"
	BackupSheet               Route = "BackupSheet"
	ChangeWalletSheet         Route = "ChangeWalletSheet"
	CustomGasSheet            Route = "CustomGasSheet"
	DiagnosticsSheet          Route = "DiagnosticsSheet"
	DiscoverScreen            Route = "DiscoverScreen"
	ENSConfirmRegisterSheet   Route = "ENSConfirmRegisterSheet"
	ExpandedAssetSheet        Route = "ExpandedAssetSheet"
	ExplainSheet              Route = "ExplainSheet"
	ExternalLinkWarningSheet  Route = "ExternalLinkWarningSheet"
	HardwareWalletTxNavigator Route = "HardwareWalletTxNavigator"
	MainNavigatorWrapper      Route = "MainNavigatorWrapper"
	MintSheet                 Route = "MintSheet"
	ModalScreen               Route = "ModalScreen"
	PairHardwareWalletNav     Route = "PairHardwareWalletNavigator"
	PointsScreen              Route = "PointsScreen"
	PositionSheet             Route = "PositionSheet"
	ProfileScreen             Route = "ProfileScreen"
	QRScannerScreen           Route = "QRScannerScreen"
	ReceiveModal              Route = "ReceiveModal"
	RestoreSheet              Route = "RestoreSheet"
	SendConfirmationSheet     Route = "SendConfirmationSheet"
	SendSheet                 Route = "SendSheet"
	SettingsSheet             Route = "SettingsSheet"
	SwapScreen                Route = "SwapScreen"
	SwipeLayout               Route = "SwipeLayout"
	TransactionDetails        Route = "TransactionDetails"
	WalletConnectApproval     Route = "WalletConnectApprovalSheet"
	WalletScreen              Route = "WalletScreen"
	WelcomeScreen             Route = "WelcomeScreen"
)

var catalog = map[Route]struct{}{
	AddCashSheet:              {},
	AddWalletNavigator:        {},
	BackupSheet:               {},
	ChangeWalletSheet:         {},
	CustomGasSheet:            {},
	DiagnosticsSheet:          {},
	DiscoverScreen:            {},
	ENSConfirmRegisterSheet:   {},
	ExpandedAssetSheet:        {},
	ExplainSheet:              {},
	ExternalLinkWarningSheet:  {},
	HardwareWalletTxNavigator: {},
	MainNavigatorWrapper:      {},
	MintSheet:                 {},
	ModalScreen:               {},
	PairHardwareWalletNav:     {},
	PointsScreen:              {},
	PositionSheet:             {},
	ProfileScreen:             {},
	QRScannerScreen:           {},
	ReceiveModal:              {},
	RestoreSheet:              {},
	SendConfirmationSheet:     {},
	SendSheet:                 {},
	SettingsSheet:             {},
	SwapScreen:                {},
	SwipeLayout:               {},
	TransactionDetails:        {},
	WalletConnectApproval:     {},
	WalletScreen:              {},
	WelcomeScreen:             {},
}

// native lists routes presented through the platform modal stack. Pushing
// one of these twice in quick succession stacks two native modals, so the
// gate debounces them.
var native = map[Route]struct{}{
	AddCashSheet:          {},
	ChangeWalletSheet:     {},
	ExpandedAssetSheet:    {},
	ModalScreen:           {},
	QRScannerScreen:       {},
	ReceiveModal:          {},
	SendSheet:             {},
	SettingsSheet:         {},
	SwapScreen:            {},
	WalletConnectApproval: {},
}

// Known reports whether r is part of the catalog.
func Known(r Route) bool {
	_, ok := catalog[r]
	return ok
}

// IsNative reports whether r is presented by the native modal stack.
func IsNative(r Route) bool {
	_, ok := native[r]
	return ok
}

// All returns every catalog route sorted by name.
func All() []Route {
	return sorted(catalog)
}

// Native returns the native subset sorted by name.
func Native() []Route {
	return sorted(native)
}

func sorted(set map[Route]struct{}) []Route {
	out := make([]Route, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
