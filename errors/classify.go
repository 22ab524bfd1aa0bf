package errors

import (
	"regexp"
	"strings"
)

// rule maps a raw error message onto a failure cause. Either literal or re is
// set, never both. Literals match as case-insensitive substrings.
type rule struct {
	literal string
	re      *regexp.Regexp
	cause   Cause
	message string
}

// classificationRules is walked in order, first match wins.
//
// The ordering is load-bearing and intentionally preserved from the relay's
// reporting conventions, including its rough edges: the bare "0x1" rule (SPL
// token error 1, usually surfaced when the fee payer cannot fund the
// instruction) also matches longer hex codes such as "0x1771", so the
// slippage and liquidity rules below it rarely fire on anchor error codes.
var classificationRules = []rule{
	{
		literal: "insufficient funds for rent",
		cause:   CauseInsufficientRent,
		message: "Not enough SOL to cover rent for the new account",
	},
	{
		re:      regexp.MustCompile(`(?i)insufficient\s+token\s+balance`),
		cause:   CauseInsufficientTokenBalance,
		message: "Insufficient token balance",
	},
	{
		literal: "0x1",
		cause:   CauseInsufficientFunds,
		message: "Transaction failed. You may not have enough SOL to cover fees",
	},
	{
		re:      regexp.MustCompile(`(?i)exceeds\s+desired\s+slippage|slippage\s+tolerance\s+exceeded|0x1771`),
		cause:   CauseSlippageExceeded,
		message: "Price moved beyond the slippage tolerance, try again",
	},
	{
		re:      regexp.MustCompile(`(?i)no\s+liquidity|0x1786`),
		cause:   CauseNoLiquidity,
		message: "No liquidity available for this trade",
	},
	{
		literal: "transaction too large",
		cause:   CauseTransactionTooLarge,
		message: "Transaction too large, try a smaller batch",
	},
	{
		literal: "insufficient lamports",
		cause:   CauseInsufficientFunds,
		message: "Insufficient SOL balance",
	},
	{
		literal: "attempt to debit an account but found no record of a prior credit",
		cause:   CauseInsufficientFunds,
		message: "This account has no SOL to pay with",
	},
	{
		re:      regexp.MustCompile(`(?i)blockhash\s+not\s+found|block\s+height\s+exceeded|transaction\s+expired`),
		cause:   CauseBlockhashExpired,
		message: "Transaction expired before confirmation, please retry",
	},
	{
		literal: "already in use",
		cause:   CauseAccountAlreadyExists,
		message: "Account already exists",
	},
	{
		literal: "custom program error",
		cause:   CauseProgramError,
		message: "The on-chain program rejected this transaction",
	},
	{
		re:      regexp.MustCompile(`(?i)user\s+rejected|rejected\s+the\s+request`),
		cause:   CauseWalletRejected,
		message: "Request was rejected by the wallet",
	},
}

// Classify maps a raw failure onto the user-facing cause taxonomy. Already
// classified errors are returned as-is. Unmatched messages pass through with
// CauseUnknown and the raw text as the message.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if As(err, &classified) {
		return classified
	}

	raw := err.Error()
	lowered := strings.ToLower(raw)

	for _, r := range classificationRules {
		if r.literal != "" {
			if strings.Contains(lowered, r.literal) {
				return NewClassifiedError(r.cause, r.message, err)
			}
			continue
		}
		if r.re.MatchString(raw) {
			return NewClassifiedError(r.cause, r.message, err)
		}
	}

	return NewClassifiedError(CauseUnknown, raw, err)
}
