package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not permitted to perform an operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrZeroAmount is returned when a settlement is requested for a zero delta
	ErrZeroAmount = errors.New("zero amount")

	// ErrZeroDeposit is returned when a deposit of zero value is attempted
	ErrZeroDeposit = errors.New("zero deposit")

	// ErrZeroSupply is returned when a deposit targets a series with no outstanding units
	ErrZeroSupply = errors.New("zero supply")

	// ErrClassNotFound is returned when a bond class does not exist
	ErrClassNotFound = errors.New("bond class not found")

	// ErrNonceNotFound is returned when a bond nonce does not exist
	ErrNonceNotFound = errors.New("bond nonce not found")

	// ErrInsufficientBalance is returned when a holder moves more units than they own
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrMaxSupplyExceeded is returned when issuance would exceed the class supply cap
	ErrMaxSupplyExceeded = errors.New("max supply exceeded")

	// ErrMaxSupplyZero is returned when creating a class with a zero supply cap
	ErrMaxSupplyZero = errors.New("max supply must be positive")

	// ErrNotMatured is returned when redeeming before the nonce maturity timestamp
	ErrNotMatured = errors.New("not matured")

	// ErrNotRedeemable is returned when redeeming a nonce not yet marked redeemable
	ErrNotRedeemable = errors.New("not redeemable")

	// ErrNothingToClaim is returned when a claim would pay out nothing
	ErrNothingToClaim = errors.New("nothing to claim")

	// ErrSelfApproval is returned when an owner tries to approve themselves as operator
	ErrSelfApproval = errors.New("self approval")

	// ErrAssetMismatch is returned when a payment asset does not match the class terms
	ErrAssetMismatch = errors.New("asset mismatch")

	// ErrInvalidAsset is returned when an asset identifier cannot be parsed
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrInvalidAddress is returned when a holder or admin address is malformed or empty
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAccountingInvariant indicates accumulator or debt state that can only be
	// produced by a bug. Operations fail and roll back instead of clamping.
	ErrAccountingInvariant = errors.New("accounting invariant violated")
)
