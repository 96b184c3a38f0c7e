package protocol

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) *uint32 { return &v }

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msgs []Message
	}{
		{
			name: "single pointer-only message",
			msgs: []Message{{Pointer: u32(1), Calldata: []uint64{77}}},
		},
		{
			name: "pointer and refund",
			msgs: []Message{{Pointer: u32(0), Refund: u32(2), Calldata: []uint64{78, 1}}},
		},
		{
			name: "no optional fields",
			msgs: []Message{{Calldata: []uint64{99}}},
		},
		{
			name: "message with edicts",
			msgs: []Message{{
				Edicts:  []Edict{{Block: 2, Tx: 17, Amount: 1_000_000, Output: 3}},
				Pointer: u32(1),
			}},
		},
		{
			name: "multiple messages",
			msgs: []Message{
				{Pointer: u32(1), Calldata: []uint64{77}},
				{Pointer: u32(0), Refund: u32(1), Calldata: []uint64{78, 0}},
				{Calldata: []uint64{104}},
			},
		},
		{
			name: "large varint values",
			msgs: []Message{{
				Edicts:   []Edict{{Block: 1 << 62, Tx: 1<<64 - 1, Amount: 1<<64 - 1, Output: 1<<32 - 1}},
				Calldata: []uint64{1<<64 - 1},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := encodePayload(tt.msgs)
			decoded, err := decodePayload(payload)
			require.NoError(t, err)
			require.Equal(t, tt.msgs, decoded)
		})
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"truncated edict count", []byte{0x80}},
		{"edict count exceeds payload", []byte{0xff, 0xff, 0x03}},
		{"missing flags", []byte{0x00}},
		{"pointer flagged but absent", []byte{0x00, 0x01}},
		{"unknown flag bits", []byte{0x00, 0x04, 0x00}},
		{"truncated calldata", []byte{0x00, 0x00, 0x02, 0x01}},
		{"oversized varint", append([]byte{0x00, 0x00, 0x01}, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePayload(tt.payload)
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestEncodeScript_Decipher(t *testing.T) {
	msgs := []Message{{Pointer: u32(1), Calldata: []uint64{77}}}
	script, err := EncodeScript(msgs)
	require.NoError(t, err)
	require.Equal(t, byte(opReturn), script[0])
	require.Equal(t, byte(opMagic), script[1])

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(100_000, []byte{0x51})) // unrelated output
	tx.AddTxOut(wire.NewTxOut(0, script))

	decoded, err := Decipher(tx)
	require.NoError(t, err)
	require.Equal(t, msgs, decoded)
}

func TestEncodeScript_LargePayloadSplitsPushes(t *testing.T) {
	// Enough calldata to exceed one 520-byte script element.
	calldata := make([]uint64, 800)
	for i := range calldata {
		calldata[i] = uint64(i) + 1<<40
	}
	msgs := []Message{{Calldata: calldata}}

	script, err := EncodeScript(msgs)
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(0, script))

	decoded, err := Decipher(tx)
	require.NoError(t, err)
	require.Equal(t, msgs, decoded)
}

func TestDecipher_NoEnvelope(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(100_000, []byte{0x51}))

	_, err := Decipher(tx)
	require.ErrorIs(t, err, ErrNoProtocolMessage)
}

func TestMessageForCall(t *testing.T) {
	msgs := []Message{
		{Calldata: []uint64{77}},
		{Calldata: []uint64{78}},
	}

	// Two real outputs: message 0 sits at vout 3, message 1 at vout 4.
	m, err := MessageForCall(msgs, 3, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{77}, m.Calldata)

	m, err = MessageForCall(msgs, 4, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{78}, m.Calldata)

	_, err = MessageForCall(msgs, 2, 2)
	require.ErrorIs(t, err, ErrNoProtocolMessage)

	_, err = MessageForCall(msgs, 5, 2)
	require.ErrorIs(t, err, ErrNoProtocolMessage)

	_, err = MessageForCall(msgs, 0, 2)
	require.ErrorIs(t, err, ErrNoProtocolMessage)
}

func TestDecodeTx(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(50_000, []byte{0x51}))

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))

	decoded, err := DecodeTx(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), decoded.TxHash())

	_, err = DecodeTx([]byte{0xde, 0xad, 0xbe, 0xef})
	require.ErrorIs(t, err, ErrMalformedTransaction)
}
