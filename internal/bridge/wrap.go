package bridge

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/holiman/uint256"

	"github.com/glacierlabs/synthbtc/config"
	"github.com/glacierlabs/synthbtc/internal/token"
	"github.com/glacierlabs/synthbtc/pkg/protocol"
)

// Exchange verifies a wrap: it decodes the call's transaction, sums every
// output paying the custodian script, deducts the premium, and mints that
// many units of the synthetic asset. Each transaction can be exchanged at
// most once; the replay mark and the mint commit atomically.
//
// A transaction with no custodian-paying outputs is a valid wrap of zero.
func (b *Bridge) Exchange(call *Call) (*token.Transfer, error) {
	tx, err := protocol.DecodeTx(call.RawTx)
	if err != nil {
		return nil, err
	}
	txid := tx.TxHash()

	total, err := b.sumToSigner(tx)
	if err != nil {
		return nil, err
	}
	adjusted, fee, err := b.applyPremium(total)
	if err != nil {
		return nil, err
	}
	if !adjusted.IsUint64() {
		return nil, fmt.Errorf("%w: adjusted payout", ErrValueOverflow)
	}

	batch := b.batcher.NewBatch()
	if err := b.observe(batch, txid); err != nil {
		return nil, err
	}
	supply, err := b.tokens.Mint(batch, adjusted.Uint64())
	if err != nil {
		return nil, err
	}
	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("wrap commit: %w", err)
	}

	b.log.Info().
		Str("txid", txid.String()).
		Str("payout", total.String()).
		Str("fee", fee.String()).
		Str("minted", adjusted.String()).
		Uint64("supply", supply).
		Msg("wrap exchanged")

	return &token.Transfer{Asset: b.asset, Amount: adjusted}, nil
}

// Quote computes what a wrap of rawTx would pay out without touching any
// state: the gross payout, the fee, and the amount that would be minted.
// Replay status is not checked.
func (b *Bridge) Quote(rawTx []byte) (payout, fee, adjusted *uint256.Int, err error) {
	tx, err := protocol.DecodeTx(rawTx)
	if err != nil {
		return nil, nil, nil, err
	}
	payout, err = b.sumToSigner(tx)
	if err != nil {
		return nil, nil, nil, err
	}
	adjusted, fee, err = b.applyPremium(payout)
	if err != nil {
		return nil, nil, nil, err
	}
	return payout, fee, adjusted, nil
}

// sumToSigner totals the outputs paying the current custodian script.
func (b *Bridge) sumToSigner(tx *wire.MsgTx) (*uint256.Int, error) {
	signer, err := b.Signer()
	if err != nil {
		return nil, err
	}
	total := new(uint256.Int)
	for _, out := range tx.TxOut {
		if !bytes.Equal(out.PkScript, signer) {
			continue
		}
		value := uint256.NewInt(uint64(out.Value))
		if _, carry := total.AddOverflow(total, value); carry {
			return nil, fmt.Errorf("%w: summing payouts", ErrValueOverflow)
		}
	}
	return total, nil
}

// applyPremium returns payout minus its premium fee, and the fee itself.
// fee = payout * premium / PremiumScale, truncating; the subtraction
// saturates at zero so the result is never negative.
func (b *Bridge) applyPremium(payout *uint256.Int) (adjusted, fee *uint256.Int, err error) {
	premium, err := b.Premium()
	if err != nil {
		return nil, nil, err
	}

	fee = new(uint256.Int)
	if _, carry := fee.MulOverflow(payout, premium); carry {
		return nil, nil, fmt.Errorf("%w: applying premium", ErrValueOverflow)
	}
	fee.Div(fee, uint256.NewInt(config.PremiumScale))

	adjusted = new(uint256.Int)
	if fee.Gt(payout) {
		return adjusted, fee, nil
	}
	adjusted.Sub(payout, fee)
	return adjusted, fee, nil
}
