package clients

import (
	"context"
	"strings"

	"github.com/x402x/gives/types"
)

// Wallet is the donor-side wallet boundary. The connection UI itself lives
// in the embedding client; the orchestrator only needs the connected state,
// the current chain, a chain-switch operation, and a signing handle for
// transfer authorizations.
type Wallet interface {
	Address() string
	ChainID() int64
	Connected() bool

	// SwitchChain asks the wallet to move to the target chain. It may
	// reject (user declined) or fail (RPC error); both are ordinary errors.
	SwitchChain(ctx context.Context, chainID int64) error

	// SignTransferAuthorization signs an EIP-3009 transfer authorization
	// and returns the 65-byte signature as a 0x hex string.
	SignTransferAuthorization(ctx context.Context, auth TransferAuthorization) (string, error)
}

// TransferAuthorization is the message a wallet signs to authorize the
// settlement router to pull the payment.
type TransferAuthorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// userRejectedCode is the conventional EIP-1193 rejection code wallets
// embed in error messages.
const userRejectedCode = "4001"

// IsUserRejection classifies an error as a donor declining a wallet prompt.
// Rejections are expected and recoverable; they are logged but never
// treated as unexpected failures.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	if ge, ok := err.(*types.GivesError); ok && ge.Code == types.ErrUserRejected {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, userRejectedCode) ||
		strings.Contains(strings.ToLower(msg), "user rejected")
}
