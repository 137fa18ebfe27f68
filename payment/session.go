// Package payment drives the multi-step donation flow: network selection,
// wallet connection and chain switching, fee quoting, and settlement
// execution, with explicit recovery at every stage.
package payment

import (
	"github.com/x402x/gives/clients"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
)

// Step is the current stage of a payment session. It is a closed enum;
// every handler switches over it exhaustively so a new step cannot be
// silently ignored anywhere.
type Step int

const (
	StepSelectNetwork Step = iota
	StepSwitchNetwork
	StepLoadingFee
	StepConfirmPayment
	StepProcessing
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepSelectNetwork:
		return "select-network"
	case StepSwitchNetwork:
		return "switch-network"
	case StepLoadingFee:
		return "loading-fee"
	case StepConfirmPayment:
		return "confirm-payment"
	case StepProcessing:
		return "processing"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

// Session is the transient state of one open donation dialog. It is
// created by Open, discarded by Close, and never persisted. Err is a
// sticky annotation on whatever step the session returned to, not a step
// of its own.
type Session struct {
	Step            Step
	SelectedNetwork networks.Key
	Fee             *clients.FeeInfo
	Err             string
	TxHash          string

	amount          string
	config          *types.DonationConfig
	recipients      []types.Recipient
	payTo           string
	selectable []networks.Key

	// manualSelection distinguishes a network the donor (or auto-select)
	// chose from a preference-preloaded default, which must not advance
	// the flow on its own.
	manualSelection bool
}

// Selectable returns the networks this session may settle on.
func (s *Session) Selectable() []networks.Key {
	return append([]networks.Key(nil), s.selectable...)
}

// CanChangeNetwork reports whether backing out of the confirmation step to
// re-select a network is allowed.
func (s *Session) CanChangeNetwork() bool {
	return len(s.selectable) > 1
}

// Breakdown is the donor-visible cost summary, all values in the asset's
// decimal display form.
type Breakdown struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Total  string `json:"total"`
}

// SuccessResult is handed to the success callback when a settlement lands.
type SuccessResult struct {
	TxHash         string       `json:"txHash"`
	Network        networks.Key `json:"network"`
	Amount         string       `json:"amount"`
	PayTo          string       `json:"payTo"`
	FacilitatorFee string       `json:"facilitatorFee,omitempty"`
}

// Callbacks surface terminal session events to the embedding client.
// All fields are optional.
type Callbacks struct {
	OnSuccess func(SuccessResult)
	OnError   func(error)
	OnStep    func(Step)
}
