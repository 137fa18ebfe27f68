package types

// GivesError is the typed error exchanged across package boundaries.
// Collaborator failures (GitHub, wallet, facilitator) are always wrapped
// into one of these so nothing uncaught crosses into a caller.
type GivesError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *GivesError) Error() string {
	return e.Message
}

// Common error codes
const (
	ErrInvalidConfig      = "INVALID_CONFIG"
	ErrInvalidAddress     = "INVALID_ADDRESS"
	ErrInvalidAmount      = "INVALID_AMOUNT"
	ErrUnsupportedNetwork = "UNSUPPORTED_NETWORK"
	ErrNoSelectableNet    = "NO_SELECTABLE_NETWORK"
	ErrWalletNotConnected = "WALLET_NOT_CONNECTED"
	ErrUserRejected       = "USER_REJECTED"
	ErrSwitchFailed       = "SWITCH_FAILED"
	ErrFeeQueryFailed     = "FEE_QUERY_FAILED"
	ErrExecutionFailed    = "EXECUTION_FAILED"
	ErrResolutionFailed   = "RESOLUTION_FAILED"
	ErrNetworkError       = "NETWORK_ERROR"
	ErrConfigError        = "CONFIG_ERROR"
)

// NewError builds a GivesError with the given code and message.
func NewError(code, message string) *GivesError {
	return &GivesError{Code: code, Message: message}
}
