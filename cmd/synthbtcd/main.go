// synthbtcd is the operator tool for a synthetic-Bitcoin bridge instance.
// It opens the instance's local store and answers queries against it.
//
// Usage:
//
//	synthbtcd [--datadir=... --network=...] <command> [args]
//
// Commands:
//
//	get-signer                    Print the custodian script and address
//	get-premium                   Print the current wrap premium
//	get-total-supply              Print the synthetic asset's total supply
//	get-pending-payments <height> Print payout obligations queued at height
//	decode-tx <hex>               Decode a raw transaction and its messages
//	simulate-wrap <hex>           Compute what a wrap of the tx would mint
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glacierlabs/synthbtc/config"
	"github.com/glacierlabs/synthbtc/internal/bridge"
	"github.com/glacierlabs/synthbtc/internal/log"
	"github.com/glacierlabs/synthbtc/internal/storage"
	"github.com/glacierlabs/synthbtc/pkg/protocol"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dataDir := config.DefaultDataDir()
	network := string(config.Mainnet)

	// Scan for global flags before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg := config.Default(config.NetworkType(network))
	cfg.DataDir = dataDir
	values, err := config.LoadFile(filepath.Join(dataDir, "synthbtc.conf"))
	if err != nil {
		fatal(err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		fatal(err)
	}
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal(err)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	// decode-tx needs no store.
	if cmd == "decode-tx" {
		cmdDecodeTx(cmdArgs)
		return
	}

	db, err := storage.NewBadger(filepath.Join(cfg.DataDir, string(cfg.Network), "bridge"))
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	b, err := bridge.New(db, cfg)
	if err != nil {
		fatal(err)
	}

	switch cmd {
	case "get-signer":
		cmdGetSigner(b)
	case "get-premium":
		cmdGetPremium(b)
	case "get-total-supply":
		cmdGetTotalSupply(b)
	case "get-pending-payments":
		cmdGetPendingPayments(b, cmdArgs)
	case "simulate-wrap":
		cmdSimulateWrap(b, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func cmdGetSigner(b *bridge.Bridge) {
	script, err := b.Signer()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("script:  %x\n", script)
	addr, err := b.SignerAddress()
	if err != nil {
		fatal(err)
	}
	if addr != "" {
		fmt.Printf("address: %s\n", addr)
	}
}

func cmdGetPremium(b *bridge.Bridge) {
	premium, err := b.Premium()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("premium: %s / %d\n", premium, config.PremiumScale)
}

func cmdGetTotalSupply(b *bridge.Bridge) {
	supply, err := b.Tokens().TotalSupply()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("total supply: %d\n", supply)
}

func cmdGetPendingPayments(b *bridge.Bridge, args []string) {
	if len(args) != 1 {
		fatalf("usage: get-pending-payments <height>")
	}
	height, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fatalf("invalid height: %v", err)
	}
	pending, err := b.ListPending(height)
	if err != nil {
		fatal(err)
	}
	for i, p := range pending {
		fmt.Printf("[%d] spendable=%s:%d value=%d script=%x\n",
			i, p.Spendable.Hash, p.Spendable.Index, p.Value, p.Script)
	}
	fmt.Printf("%d pending payment(s) at height %d\n", len(pending), height)
}

func cmdDecodeTx(args []string) {
	if len(args) != 1 {
		fatalf("usage: decode-tx <hex>")
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil {
		fatalf("invalid hex: %v", err)
	}
	tx, err := protocol.DecodeTx(raw)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("txid: %s\n", tx.TxHash())
	fmt.Printf("inputs: %d\n", len(tx.TxIn))
	for i, out := range tx.TxOut {
		fmt.Printf("out[%d]: value=%d script=%x\n", i, out.Value, out.PkScript)
	}

	msgs, err := protocol.Decipher(tx)
	if err != nil {
		fmt.Printf("messages: none (%v)\n", err)
		return
	}
	for i, msg := range msgs {
		fmt.Printf("msg[%d]:", i)
		if msg.Pointer != nil {
			fmt.Printf(" pointer=%d", *msg.Pointer)
		}
		if msg.Refund != nil {
			fmt.Printf(" refund=%d", *msg.Refund)
		}
		for _, e := range msg.Edicts {
			fmt.Printf(" edict=%d:%d:%d->%d", e.Block, e.Tx, e.Amount, e.Output)
		}
		if len(msg.Calldata) > 0 {
			fmt.Printf(" calldata=%v", msg.Calldata)
		}
		fmt.Println()
	}
}

func cmdSimulateWrap(b *bridge.Bridge, args []string) {
	if len(args) != 1 {
		fatalf("usage: simulate-wrap <hex>")
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil {
		fatalf("invalid hex: %v", err)
	}
	tx, err := protocol.DecodeTx(raw)
	if err != nil {
		fatal(err)
	}
	seen, err := b.Seen(tx.TxHash())
	if err != nil {
		fatal(err)
	}
	payout, fee, adjusted, err := b.Quote(raw)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("txid:     %s\n", tx.TxHash())
	fmt.Printf("payout:   %s sats\n", payout)
	fmt.Printf("fee:      %s sats\n", fee)
	fmt.Printf("mint:     %s units\n", adjusted)
	if seen {
		fmt.Println("note: transaction already processed, a wrap would be rejected")
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `synthbtcd - synthetic-Bitcoin bridge operator tool

Usage:
  synthbtcd [--datadir=DIR] [--network=NET] <command> [args]

Commands:
  get-signer                    Print the custodian script and address
  get-premium                   Print the current wrap premium
  get-total-supply              Print the synthetic asset's total supply
  get-pending-payments <height> Print payout obligations queued at height
  decode-tx <hex>               Decode a raw transaction and its messages
  simulate-wrap <hex>           Compute what a wrap of the tx would mint

Global flags:
  --datadir=DIR   Data directory (default: platform data dir)
  --network=NET   mainnet, testnet, or regtest (default: mainnet)
`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
