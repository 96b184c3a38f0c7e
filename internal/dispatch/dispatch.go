package dispatch

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/glacierlabs/synthbtc/config"
	"github.com/glacierlabs/synthbtc/internal/auth"
	"github.com/glacierlabs/synthbtc/internal/bridge"
	"github.com/glacierlabs/synthbtc/internal/log"
	"github.com/glacierlabs/synthbtc/internal/storage"
	"github.com/glacierlabs/synthbtc/internal/token"
)

// Result is the outcome of an executed operation: opaque return data for
// queries, and the value transfers the host should deliver.
type Result struct {
	Data      []byte
	Transfers []token.Transfer
}

// Dispatcher routes typed operations to the bridge engines, applying the
// owner gate to the privileged ones.
type Dispatcher struct {
	bridge *bridge.Bridge
	gate   *auth.Gate
	log    zerolog.Logger
}

// New creates a dispatcher over the given bridge.
func New(b *bridge.Bridge) *Dispatcher {
	return &Dispatcher{
		bridge: b,
		gate:   auth.NewGate(b.AuthAsset()),
		log:    log.Dispatch,
	}
}

// ExecuteCalldata parses the call's raw calldata and executes the resulting
// operation.
func (d *Dispatcher) ExecuteCalldata(call *bridge.Call, calldata []uint64) (*Result, error) {
	op, err := ParseOp(calldata)
	if err != nil {
		return nil, err
	}
	return d.Execute(call, op)
}

// Execute runs one operation against the bridge. The switch is exhaustive
// over the operation union.
func (d *Dispatcher) Execute(call *bridge.Call, op Op) (*Result, error) {
	d.log.Debug().Str("op", fmt.Sprintf("%T", op)).Uint32("vout", call.Vout).Msg("executing call")

	switch op := op.(type) {
	case Initialize:
		transfer, err := d.bridge.Initialize(call, op.AuthUnits)
		if err != nil {
			return nil, err
		}
		return &Result{Transfers: []token.Transfer{*transfer}}, nil

	case SetSigner:
		if err := d.gate.RequireOwner(call.Incoming); err != nil {
			return nil, err
		}
		script, err := d.bridge.Rotate(call, op.Vout)
		if err != nil {
			return nil, err
		}
		return &Result{Data: script}, nil

	case Wrap:
		transfer, err := d.bridge.Exchange(call)
		if err != nil {
			return nil, err
		}
		return &Result{Transfers: []token.Transfer{*transfer}}, nil

	case Unwrap:
		amount, err := d.bridge.Burn(call, op.Vout)
		if err != nil {
			return nil, err
		}
		return &Result{Data: binary.LittleEndian.AppendUint64(nil, amount)}, nil

	case SetPremium:
		if err := d.gate.RequireOwner(call.Incoming); err != nil {
			return nil, err
		}
		if err := d.bridge.SetPremium(uint256.NewInt(op.Premium)); err != nil {
			return nil, err
		}
		return &Result{}, nil

	case GetSigner:
		script, err := d.bridge.Signer()
		if err != nil {
			return nil, err
		}
		return &Result{Data: script}, nil

	case GetPendingPayments:
		data, err := d.bridge.PendingBytes(call.Height)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data}, nil

	case GetName:
		meta, err := d.metadata()
		if err != nil {
			return nil, err
		}
		return &Result{Data: []byte(meta.Name)}, nil

	case GetSymbol:
		meta, err := d.metadata()
		if err != nil {
			return nil, err
		}
		return &Result{Data: []byte(meta.Symbol)}, nil

	case GetDecimals:
		meta, err := d.metadata()
		if err != nil {
			return nil, err
		}
		return &Result{Data: []byte{meta.Decimals}}, nil

	case GetTotalSupply:
		supply, err := d.bridge.Tokens().TotalSupply()
		if err != nil {
			return nil, err
		}
		return &Result{Data: binary.LittleEndian.AppendUint64(nil, supply)}, nil

	case GetPremium:
		premium, err := d.bridge.Premium()
		if err != nil {
			return nil, err
		}
		data := make([]byte, 16)
		binary.LittleEndian.PutUint64(data[0:8], premium[0])
		binary.LittleEndian.PutUint64(data[8:16], premium[1])
		return &Result{Data: data}, nil
	}
	return nil, fmt.Errorf("unhandled operation %T", op)
}

// metadata reads the stored asset metadata, falling back to the compiled-in
// constants before initialization has run.
func (d *Dispatcher) metadata() (*token.Metadata, error) {
	meta, err := d.bridge.Tokens().Metadata()
	if errors.Is(err, storage.ErrNotFound) {
		return &token.Metadata{
			Name:     config.AssetName,
			Symbol:   config.AssetSymbol,
			Decimals: config.AssetDecimals,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}
