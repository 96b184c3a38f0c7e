package payment

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func samplePayment(seed byte) Payment {
	var txid chainhash.Hash
	for i := range txid {
		txid[i] = seed ^ byte(i)
	}
	return Payment{
		Spendable: wire.OutPoint{Hash: txid, Index: uint32(seed)},
		Value:     99_500_000 + uint64(seed),
		Script:    []byte{0x51, 0x20, seed, seed + 1, seed + 2},
	}
}

func TestRoundTrip(t *testing.T) {
	want := samplePayment(7)

	got, err := Decode(want.Bytes())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRoundTrip_EmptyScript(t *testing.T) {
	want := Payment{
		Spendable: wire.OutPoint{Index: 3},
		Value:     1,
		Script:    []byte{},
	}

	got, err := Decode(want.Bytes())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeAll_Stream(t *testing.T) {
	want := []Payment{samplePayment(1), samplePayment(2), samplePayment(3)}

	var stream []byte
	for i := range want {
		stream = want[i].Encode(stream)
	}

	got, err := DecodeAll(stream)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeAll_Empty(t *testing.T) {
	got, err := DecodeAll(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecode_Corrupt(t *testing.T) {
	p := samplePayment(9)
	valid := p.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated txid", valid[:16]},
		{"truncated value", valid[:40]},
		{"missing script bytes", valid[:len(valid)-2]},
		{"trailing garbage", append(append([]byte{}, valid...), 0xFF)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, ErrCorruptPayment)
		})
	}
}

func TestDecodeAll_CorruptTail(t *testing.T) {
	p := samplePayment(4)
	stream := p.Bytes()
	stream = append(stream, 0x01, 0x02) // half a record

	_, err := DecodeAll(stream)
	require.ErrorIs(t, err, ErrCorruptPayment)
}

func TestLargeScriptLengthRejected(t *testing.T) {
	p := samplePayment(5)
	data := p.Bytes()
	// Script length byte claims more bytes than remain.
	data[44] = 0xF0
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrCorruptPayment)
}
