// Package dispatch decodes protocol calldata into typed operations and
// routes them to the bridge engines.
//
// Operations form a closed union: adding one means touching ParseOp and the
// Execute switch, and the compiler flags any case left unhandled. The
// integer opcodes exist only at the wire boundary.
package dispatch

import (
	"errors"
	"fmt"
	"math"
)

// Calldata decode errors.
var (
	ErrEmptyCalldata = errors.New("empty calldata")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrBadArity      = errors.New("wrong argument count for opcode")
	ErrArgOutOfRange = errors.New("argument out of range")
)

// Wire opcodes. Consensus-critical: every deployment must agree.
const (
	opInitialize         uint64 = 0
	opSetSigner          uint64 = 1
	opSetPremium         uint64 = 4
	opWrap               uint64 = 77
	opUnwrap             uint64 = 78
	opGetName            uint64 = 99
	opGetSymbol          uint64 = 100
	opGetTotalSupply     uint64 = 101
	opGetDecimals        uint64 = 102
	opGetSigner          uint64 = 103
	opGetPremium         uint64 = 104
	opGetPendingPayments uint64 = 105
)

// Op is one decoded bridge operation.
type Op interface {
	isOp()
}

// Initialize performs the one-time setup, minting AuthUnits auth tokens.
type Initialize struct {
	AuthUnits uint64
}

// SetSigner rotates the custodian script; Vout is the output index reserved
// for the bridge's own spendable output.
type SetSigner struct {
	Vout uint32
}

// Wrap mints the synthetic asset against the call's transaction.
type Wrap struct{}

// Unwrap burns the attached synthetic units and queues a payout spendable
// from output Vout.
type Unwrap struct {
	Vout uint32
}

// SetPremium updates the wrap fee rate.
type SetPremium struct {
	Premium uint64
}

// Queries.
type (
	GetSigner          struct{}
	GetPendingPayments struct{}
	GetName            struct{}
	GetSymbol          struct{}
	GetTotalSupply     struct{}
	GetDecimals        struct{}
	GetPremium         struct{}
)

func (Initialize) isOp()         {}
func (SetSigner) isOp()          {}
func (Wrap) isOp()               {}
func (Unwrap) isOp()             {}
func (SetPremium) isOp()         {}
func (GetSigner) isOp()          {}
func (GetPendingPayments) isOp() {}
func (GetName) isOp()            {}
func (GetSymbol) isOp()          {}
func (GetTotalSupply) isOp()     {}
func (GetDecimals) isOp()        {}
func (GetPremium) isOp()         {}

// ParseOp decodes a message's calldata (opcode followed by fixed-arity
// arguments) into a typed operation.
func ParseOp(calldata []uint64) (Op, error) {
	if len(calldata) == 0 {
		return nil, ErrEmptyCalldata
	}
	opcode, args := calldata[0], calldata[1:]

	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%w: opcode %d wants %d args, got %d", ErrBadArity, opcode, n, len(args))
		}
		return nil
	}

	switch opcode {
	case opInitialize:
		if err := arity(1); err != nil {
			return nil, err
		}
		return Initialize{AuthUnits: args[0]}, nil

	case opSetSigner:
		if err := arity(1); err != nil {
			return nil, err
		}
		vout, err := voutArg(args[0])
		if err != nil {
			return nil, err
		}
		return SetSigner{Vout: vout}, nil

	case opWrap:
		if err := arity(0); err != nil {
			return nil, err
		}
		return Wrap{}, nil

	case opUnwrap:
		if err := arity(1); err != nil {
			return nil, err
		}
		vout, err := voutArg(args[0])
		if err != nil {
			return nil, err
		}
		return Unwrap{Vout: vout}, nil

	case opSetPremium:
		if err := arity(1); err != nil {
			return nil, err
		}
		return SetPremium{Premium: args[0]}, nil

	case opGetSigner, opGetPendingPayments, opGetName, opGetSymbol,
		opGetTotalSupply, opGetDecimals, opGetPremium:
		if err := arity(0); err != nil {
			return nil, err
		}
		switch opcode {
		case opGetSigner:
			return GetSigner{}, nil
		case opGetPendingPayments:
			return GetPendingPayments{}, nil
		case opGetName:
			return GetName{}, nil
		case opGetSymbol:
			return GetSymbol{}, nil
		case opGetTotalSupply:
			return GetTotalSupply{}, nil
		case opGetDecimals:
			return GetDecimals{}, nil
		default:
			return GetPremium{}, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, opcode)
}

func voutArg(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: vout %d", ErrArgOutOfRange, v)
	}
	return uint32(v), nil
}
