package bridge

import "errors"

// Malformed-input and policy errors. All reject the call before any state
// is committed; the host rolls back the enclosing storage transaction.
var (
	// ErrAlreadyProcessed reports a wrap replay: the transaction has
	// already produced its one permitted mint. Distinct from other
	// failures so relayers can tell a stale retry from a real fault.
	ErrAlreadyProcessed = errors.New("transaction already processed")

	// ErrEdictsNotAllowed reports a protocol message carrying value
	// edicts where only a pointer instruction is permitted.
	ErrEdictsNotAllowed = errors.New("message cannot contain edicts, only a pointer")

	// ErrMissingPointer reports a message with no pointer field.
	ErrMissingPointer = errors.New("no pointer in message")

	// ErrPointerOutOfRange reports a pointer or target index that does
	// not name a real transaction output.
	ErrPointerOutOfRange = errors.New("pointer past transaction outputs")

	// ErrPointerCollision reports a pointer equal to the output index
	// reserved for the bridge's own spendable output.
	ErrPointerCollision = errors.New("pointer cannot equal output spendable by bridge")

	// ErrSignerNotTargeted reports an unwrap whose target output does not
	// pay the current custodian script.
	ErrSignerNotTargeted = errors.New("custodian script must be targeted with supplementary output")

	// ErrMustBeExternalCaller reports an unwrap invoked by a contract
	// rather than an externally-owned account.
	ErrMustBeExternalCaller = errors.New("must be called by external account")

	// ErrInvalidAttachedTransfer reports an unwrap whose attachments are
	// not exactly one transfer of the bridge's own asset.
	ErrInvalidAttachedTransfer = errors.New("must attach only the bridge asset")

	// ErrAmountTooLarge reports an attached amount that does not narrow
	// to a 64-bit satoshi value.
	ErrAmountTooLarge = errors.New("amount exceeds 64-bit range")

	// ErrValueOverflow reports arithmetic overflow while summing payouts
	// or applying the premium. Failing closed here means the bridge can
	// under-mint (recoverable) but never over-mint.
	ErrValueOverflow = errors.New("value overflow")

	// ErrInvalidPremium reports a premium outside [0, MaxPremium].
	ErrInvalidPremium = errors.New("premium must be between 0 and 100,000,000")

	// ErrAlreadyInitialized reports a second initialize call.
	ErrAlreadyInitialized = errors.New("bridge already initialized")

	// ErrCorruptLedger reports a persisted payment record that no longer
	// decodes. Unrecoverable: the ledger is never silently skipped over.
	ErrCorruptLedger = errors.New("corrupt payment ledger")
)
