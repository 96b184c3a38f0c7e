package bridge

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/holiman/uint256"

	"github.com/glacierlabs/synthbtc/internal/token"
	"github.com/glacierlabs/synthbtc/pkg/payment"
	"github.com/glacierlabs/synthbtc/pkg/protocol"
)

// Burn verifies an unwrap: it burns the attached synthetic units and queues
// a payout obligation for the relayer, spendable from the custodian-paying
// output at vout and payable to the script named by the message pointer.
// The burn and the ledger append commit atomically. Returns the burned
// amount in satoshis.
func (b *Bridge) Burn(call *Call, vout uint32) (uint64, error) {
	if !call.CallerIsExternal() {
		return 0, ErrMustBeExternalCaller
	}
	amount, err := b.burnInput(call.Incoming)
	if err != nil {
		return 0, err
	}

	tx, err := protocol.DecodeTx(call.RawTx)
	if err != nil {
		return 0, err
	}
	txid := tx.TxHash()

	msgs, err := protocol.Decipher(tx)
	if err != nil {
		return 0, err
	}
	msg, err := protocol.MessageForCall(msgs, call.Vout, len(tx.TxOut))
	if err != nil {
		return 0, err
	}
	pointer, err := validatePointer(msg, tx, vout)
	if err != nil {
		return 0, err
	}

	if int(vout) >= len(tx.TxOut) {
		return 0, fmt.Errorf("%w: target %d, %d outputs", ErrPointerOutOfRange, vout, len(tx.TxOut))
	}
	signer, err := b.Signer()
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(tx.TxOut[vout].PkScript, signer) {
		return 0, ErrSignerNotTargeted
	}

	obligation := &payment.Payment{
		Spendable: wire.OutPoint{Hash: txid, Index: vout},
		Value:     amount,
		Script:    append([]byte(nil), tx.TxOut[pointer].PkScript...),
	}

	batch := b.batcher.NewBatch()
	if err := b.appendPayment(batch, call.Height, obligation); err != nil {
		return 0, err
	}
	supply, err := b.tokens.Burn(batch, amount)
	if err != nil {
		return 0, err
	}
	if err := batch.Commit(); err != nil {
		return 0, fmt.Errorf("unwrap commit: %w", err)
	}

	b.log.Info().
		Str("txid", txid.String()).
		Uint32("vout", vout).
		Uint64("amount", amount).
		Uint64("supply", supply).
		Msg("unwrap queued")

	return amount, nil
}

// burnInput narrows the attached transfers to the single synthetic-asset
// amount an unwrap must carry.
func (b *Bridge) burnInput(incoming []token.Transfer) (uint64, error) {
	if len(incoming) != 1 || incoming[0].Asset != b.asset {
		return 0, ErrInvalidAttachedTransfer
	}
	amount := incoming[0].Amount
	if amount == nil {
		amount = new(uint256.Int)
	}
	if !amount.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return amount.Uint64(), nil
}
