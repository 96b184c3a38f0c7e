package bridge

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/glacierlabs/synthbtc/internal/storage"
	"github.com/glacierlabs/synthbtc/pkg/protocol"
)

// taprootScript derives the pay-to-taproot output script for an x-only
// internal key, applying the BIP-341 no-script tweak.
func taprootScript(pubKey [32]byte) ([]byte, error) {
	internal, err := schnorr.ParsePubKey(pubKey[:])
	if err != nil {
		return nil, fmt.Errorf("parse x-only pubkey: %w", err)
	}
	tweaked := txscript.ComputeTaprootKeyNoScript(internal)
	script, err := txscript.PayToTaprootScript(tweaked)
	if err != nil {
		return nil, fmt.Errorf("build taproot script: %w", err)
	}
	return script, nil
}

// Signer returns the current custodian script: the stored one if a rotation
// has happened, otherwise the compiled-in default.
func (b *Bridge) Signer() ([]byte, error) {
	script, err := b.db.Get(keySigner)
	if errors.Is(err, storage.ErrNotFound) {
		return append([]byte(nil), b.defaultSigner...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("signer get: %w", err)
	}
	return script, nil
}

// SignerAddress renders the custodian script as an address for the
// configured network, or an empty string if the script is non-standard.
func (b *Bridge) SignerAddress() (string, error) {
	script, err := b.Signer()
	if err != nil {
		return "", err
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, b.params)
	if err != nil || len(addrs) == 0 {
		return "", nil
	}
	return addrs[0].EncodeAddress(), nil
}

// Rotate replaces the custodian script with the script of the transaction
// output named by the call's pointer. The owner gate has already been
// checked by the entry point.
//
// reservedVout is the output index reserved for the bridge's own spendable
// output; the pointer may not collide with it, or the new custodian script
// would be one the bridge itself controls the change path of.
func (b *Bridge) Rotate(call *Call, reservedVout uint32) ([]byte, error) {
	tx, err := protocol.DecodeTx(call.RawTx)
	if err != nil {
		return nil, err
	}
	msgs, err := protocol.Decipher(tx)
	if err != nil {
		return nil, err
	}
	msg, err := protocol.MessageForCall(msgs, call.Vout, len(tx.TxOut))
	if err != nil {
		return nil, err
	}

	pointer, err := validatePointer(msg, tx, reservedVout)
	if err != nil {
		return nil, err
	}

	script := tx.TxOut[pointer].PkScript
	if err := b.db.Put(keySigner, script); err != nil {
		return nil, fmt.Errorf("signer put: %w", err)
	}

	b.log.Info().
		Hex("script", script).
		Uint32("pointer", pointer).
		Msg("custodian script rotated")

	return append([]byte(nil), script...), nil
}

// validatePointer applies the shared pointer rules: no edicts, pointer
// present, pointer within the real outputs, and no collision with the
// reserved output index.
func validatePointer(msg *protocol.Message, tx *wire.MsgTx, reserved uint32) (uint32, error) {
	if len(msg.Edicts) != 0 {
		return 0, ErrEdictsNotAllowed
	}
	if !msg.HasPointer() {
		return 0, ErrMissingPointer
	}
	pointer := *msg.Pointer
	if int(pointer) >= len(tx.TxOut) {
		return 0, fmt.Errorf("%w: pointer %d, %d outputs", ErrPointerOutOfRange, pointer, len(tx.TxOut))
	}
	if pointer == reserved {
		return 0, ErrPointerCollision
	}
	if msg.Refund != nil && int(*msg.Refund) >= len(tx.TxOut) {
		return 0, fmt.Errorf("%w: refund %d, %d outputs", ErrPointerOutOfRange, *msg.Refund, len(tx.TxOut))
	}
	return pointer, nil
}
