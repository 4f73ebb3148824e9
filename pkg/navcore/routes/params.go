package routes

import (
	"errors"
	"fmt"
)

// ErrParamsMismatch is returned when params built for one route are passed
// with a navigation to another.
var ErrParamsMismatch = errors.New("routes: params do not belong to route")

// Params is the closed set of per-route parameter shapes. Only types in this
// package implement it; routes without parameters take nil.
type Params interface {
	Route() Route
	params()
}

// ExpandedAssetParams opens the asset sheet for a single asset.
type ExpandedAssetParams struct {
	AssetID string
	ChainID int
	Type    string // "token" or "nft"
}

// SendParams pre-fills the send flow.
type SendParams struct {
	AssetID   string
	Recipient string
	Amount    string
}

// ExplainParams selects the explainer copy to show.
type ExplainParams struct {
	Kind    string
	ChainID int
}

// BackupParams selects the step the backup sheet opens on.
type BackupParams struct {
	Step     string
	WalletID string
}

// PositionParams identifies a position to display.
type PositionParams struct {
	PositionID string
}

// TransactionDetailsParams identifies the transaction to show.
type TransactionDetailsParams struct {
	Hash    string
	ChainID int
}

// ExternalLinkParams carries the URL the user is about to open.
type ExternalLinkParams struct {
	URL string
}

// WalletConnectApprovalParams describes a pending session proposal.
type WalletConnectApprovalParams struct {
	RequestID string
	DappName  string
	DappURL   string
	ChainIDs  []int
}

func (ExpandedAssetParams) Route() Route         { return ExpandedAssetSheet }
func (SendParams) Route() Route                  { return SendSheet }
func (ExplainParams) Route() Route               { return ExplainSheet }
func (BackupParams) Route() Route                { return BackupSheet }
func (PositionParams) Route() Route              { return PositionSheet }
func (TransactionDetailsParams) Route() Route    { return TransactionDetails }
func (ExternalLinkParams) Route() Route          { return ExternalLinkWarningSheet }
func (WalletConnectApprovalParams) Route() Route { return WalletConnectApproval }

func (ExpandedAssetParams) params()         {}
func (SendParams) params()                  {}
func (ExplainParams) params()               {}
func (BackupParams) params()                {}
func (PositionParams) params()              {}
func (TransactionDetailsParams) params()    {}
func (ExternalLinkParams) params()          {}
func (WalletConnectApprovalParams) params() {}

// ValidateParams checks that p belongs to r. Nil params are always valid.
func ValidateParams(r Route, p Params) error {
	if p == nil {
		return nil
	}
	if p.Route() != r {
		return fmt.Errorf("%w: %T is for %s, not %s", ErrParamsMismatch, p, p.Route(), r)
	}
	return nil
}
