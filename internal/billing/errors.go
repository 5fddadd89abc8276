package billing

import "errors"

var (
	// ErrCustomerRequired indicates neither a customer id nor a name was given.
	ErrCustomerRequired = errors.New("billing: customer id or name is required")
	// ErrContractRequired indicates a contract payment without a contract number.
	ErrContractRequired = errors.New("billing: choose a contract")
	// ErrContractNumberInvalid indicates a non-numeric contract number.
	ErrContractNumberInvalid = errors.New("billing: contract number must be numeric")
	// ErrContractNotFound indicates the contract is not among the customer's contracts.
	ErrContractNotFound = errors.New("billing: contract not found")
	// ErrEntryNotFound indicates the ledger entry does not exist.
	ErrEntryNotFound = errors.New("billing: entry not found")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("billing: invalid input")
	// ErrDuplicateRequest indicates the Idempotency-Key was used before.
	ErrDuplicateRequest = errors.New("billing: request already processed")
	// ErrLoadFailed wraps gateway read failures.
	ErrLoadFailed = errors.New("billing: load failed")
	// ErrWriteFailed wraps gateway write failures.
	ErrWriteFailed = errors.New("billing: write failed")
	// ErrDialogNotOpen indicates a submit for a dialog that is not the current one.
	ErrDialogNotOpen = errors.New("billing: dialog not open")
)
