package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Storefront lookups (STORE) ----

func ErrMerchantNotFound() *AppError {
	return New("STORE_001", "Merchant not found", http.StatusNotFound)
}

func ErrProductNotFound() *AppError {
	return New("STORE_002", "Product not found", http.StatusNotFound)
}

func ErrInvalidQuantity() *AppError {
	return New("STORE_003", "Quantity must be at least 1", http.StatusBadRequest)
}

func ErrOrderTooLarge() *AppError {
	return New("STORE_004", "Order total exceeds the supported amount range", http.StatusBadRequest)
}

// ---- Split configuration (SPLIT) ----

// ErrInvalidSplitTotal reports a split set whose percentages do not sum to 100.
// The observed total is included for diagnostics.
func ErrInvalidSplitTotal(total int) *AppError {
	return New("SPLIT_001", fmt.Sprintf("Total split percentage must equal 100 (got %d)", total), http.StatusBadRequest)
}

func ErrDuplicateSplitWallet(wallet string) *AppError {
	return New("SPLIT_002", fmt.Sprintf("Duplicate wallet in split set: %s", wallet), http.StatusBadRequest)
}

func ErrEmptySplits() *AppError {
	return New("SPLIT_003", "At least one split entry is required", http.StatusBadRequest)
}

func ErrNegativeSplitPercentage(wallet string) *AppError {
	return New("SPLIT_004", fmt.Sprintf("Split percentage must not be negative: %s", wallet), http.StatusBadRequest)
}

// ---- Sale lifecycle (SALE) ----

// ErrSaleNotSettleable covers both an unknown sale id and a sale that has
// already left the PENDING state. A second confirmation attempt on a paid
// sale lands here before any side effect, which is what makes settlement
// idempotent.
func ErrSaleNotSettleable() *AppError {
	return New("SALE_001", "Sale not found or already settled", http.StatusConflict)
}

// ---- Chain collaborators (CHAIN) ----

func ErrChainLookup(err error) *AppError {
	return Wrap("CHAIN_001", "Chain transaction lookup failed", http.StatusBadGateway, err)
}

func ErrUndecodableCall(err error) *AppError {
	return Wrap("CHAIN_002", "Failed to decode token transfer call data", http.StatusBadRequest, err)
}

func ErrUnsupportedCall(method string) *AppError {
	return New("CHAIN_003", fmt.Sprintf("Not a transfer() call: %s", method), http.StatusBadRequest)
}

// ---- Transfer verification (VERIFY) ----

func ErrWrongContract() *AppError {
	return New("VERIFY_001", "Transaction is not addressed to the configured token contract", http.StatusBadRequest)
}

func ErrWrongRecipient() *AppError {
	return New("VERIFY_002", "Transfer recipient does not match the merchant payout wallet", http.StatusBadRequest)
}

func ErrWrongAmount() *AppError {
	return New("VERIFY_003", "Transferred value does not match the sale amount", http.StatusBadRequest)
}

func ErrTransferFailedOnChain() *AppError {
	return New("VERIFY_004", "Transaction failed on-chain", http.StatusBadRequest)
}

// ---- Payout ledger (PAYOUT) ----

func ErrObligationNotFound() *AppError {
	return New("PAYOUT_001", "Payout obligation not found", http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_004", "Email already registered", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic field validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
