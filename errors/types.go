package errors

import (
	"fmt"
)

// Cause identifies the user-facing category of a transaction failure.
type Cause string

const (
	// CauseInvalidAddress indicates a malformed on-chain address.
	CauseInvalidAddress Cause = "INVALID_ADDRESS"

	// CauseInvalidAmount indicates a non-positive or unpayable amount.
	CauseInvalidAmount Cause = "INVALID_AMOUNT"

	// CauseInvalidMetadata indicates mint metadata failing length limits.
	CauseInvalidMetadata Cause = "INVALID_METADATA"

	// CauseInsufficientRent indicates the account cannot cover rent exemption.
	CauseInsufficientRent Cause = "INSUFFICIENT_RENT"

	// CauseInsufficientTokenBalance indicates the token balance is too low.
	CauseInsufficientTokenBalance Cause = "INSUFFICIENT_TOKEN_BALANCE"

	// CauseInsufficientFunds indicates the payer cannot cover the transfer or fees.
	CauseInsufficientFunds Cause = "INSUFFICIENT_FUNDS"

	// CauseSlippageExceeded indicates a swap moved past its slippage tolerance.
	CauseSlippageExceeded Cause = "SLIPPAGE_EXCEEDED"

	// CauseNoLiquidity indicates no route had liquidity for the trade.
	CauseNoLiquidity Cause = "NO_LIQUIDITY"

	// CauseTransactionTooLarge indicates the serialized transaction exceeds the packet limit.
	CauseTransactionTooLarge Cause = "TRANSACTION_TOO_LARGE"

	// CauseBlockhashExpired indicates the transaction referenced a stale blockhash.
	CauseBlockhashExpired Cause = "BLOCKHASH_EXPIRED"

	// CauseAccountAlreadyExists indicates an account-creation race lost harmlessly.
	CauseAccountAlreadyExists Cause = "ACCOUNT_ALREADY_EXISTS"

	// CauseProgramError indicates a generic on-chain program rejection.
	CauseProgramError Cause = "PROGRAM_ERROR"

	// CauseWalletRejected indicates the wallet declined to sign.
	CauseWalletRejected Cause = "WALLET_REJECTED"

	// CauseUnknown passes an unrecognized raw message through unchanged.
	CauseUnknown Cause = "UNKNOWN"
)

// ClassifiedError carries a failure cause, its user-facing message, and the
// raw underlying message. Immutable once classified.
type ClassifiedError struct {
	Cause   Cause
	Message string
	Raw     string
	cause   error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// NewClassifiedError creates a ClassifiedError wrapping the given raw error.
func NewClassifiedError(cause Cause, message string, raw error) *ClassifiedError {
	rawMsg := ""
	if raw != nil {
		rawMsg = raw.Error()
	}
	return &ClassifiedError{
		Cause:   cause,
		Message: message,
		Raw:     rawMsg,
		cause:   raw,
	}
}

// Validation errors raised before any network call is made.
var (
	ErrInvalidAddress = NewClassifiedError(CauseInvalidAddress, "invalid address", nil)
	ErrInvalidAmount  = NewClassifiedError(CauseInvalidAmount, "amount must be greater than zero", nil)
	ErrNameTooLong    = NewClassifiedError(CauseInvalidMetadata, "name must be 32 characters or fewer", nil)
	ErrDescTooLong    = NewClassifiedError(CauseInvalidMetadata, "description must be 200 characters or fewer", nil)
)

// FormatFailure renders the single string surfaced to the UI collaborator.
func FormatFailure(operation string, err error) string {
	return fmt.Sprintf("%s failed: %s", operation, err.Error())
}
