package message

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeGolden(t *testing.T) {
	g := goldie.New(t)

	m := &UserMessage{
		Created:         1700000000,
		Address:         []byte{0x01, 0x02, 0x03},
		TransactionType: TransactionTypeCoinSpend,
		TransactionData: []byte{0xaa, 0xbb},
	}
	g.Assert(t, "user_message", []byte(hex.EncodeToString(Encode(m))))

	list := EncodeList([][]byte{{0x01}, {0x02, 0x03}})
	g.Assert(t, "list", []byte(hex.EncodeToString(list)))

	set := EncodeKeySet(NewKeySet([]byte("b"), []byte("a"), []byte("b")))
	g.Assert(t, "key_set", []byte(hex.EncodeToString(set)))
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	original := &UserMessage{
		Created:         1700000123,
		Address:         []byte("vault"),
		TransactionType: TransactionTypeVaultChangeDailySpendAmount,
		TransactionData: make([]byte, 2048),
	}

	t.Run("RoundTrip", func(t *testing.T) {
		m, err := Decode(Encode(original))
		assert.Nil(err)
		assert.Equal(original, m)
	})

	t.Run("Unknown Fields Skipped", func(t *testing.T) {
		data := Encode(original)
		data = append(data, 0x28, 0x07) // field 5, varint 7
		m, err := Decode(data)
		assert.Nil(err)
		assert.Equal(original, m)
	})

	t.Run("Unknown Transaction Type Kept", func(t *testing.T) {
		m, err := Decode(Encode(&UserMessage{Created: 1, Address: []byte("a"), TransactionType: 42, TransactionData: []byte("x")}))
		assert.Nil(err)
		assert.Equal(TransactionType(42), m.TransactionType)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := Encode(original)
		_, err := Decode(data[:len(data)-1])
		assert.ErrorIs(err, ErrorMalformed)
	})
}

func TestList(t *testing.T) {
	assert := assert.New(t)

	items, err := DecodeList(nil)
	assert.Nil(err)
	assert.Empty(items)

	items, err = DecodeList(EncodeList([][]byte{[]byte("first"), []byte("second")}))
	assert.Nil(err)
	assert.Equal([][]byte{[]byte("first"), []byte("second")}, items)

	_, err = DecodeList([]byte{0x08, 0x01})
	assert.ErrorIs(err, ErrorMalformed)

	_, err = DecodeList([]byte{0x0a, 0x05, 0x01})
	assert.ErrorIs(err, ErrorMalformed)
}

func TestKeySet(t *testing.T) {
	assert := assert.New(t)

	s := NewKeySet([]byte("x"), []byte("y"))
	s.Add([]byte("x"))
	assert.Len(s, 2)
	assert.True(s.Has([]byte("y")))

	s.Remove([]byte("y"))
	assert.False(s.Has([]byte("y")))

	decoded, err := DecodeKeySet(EncodeKeySet(s))
	assert.Nil(err)
	assert.Equal(s, decoded)
}

func TestTransactionTypeJSON(t *testing.T) {
	assert := assert.New(t)

	data, err := json.Marshal(TransactionTypeVaultWithdraw)
	require.NoError(t, err)
	assert.Equal(`"VaultWithdraw"`, string(data))

	data, err = json.Marshal(TransactionType(9))
	require.NoError(t, err)
	assert.Equal(`9`, string(data))

	var tt TransactionType
	assert.Nil(json.Unmarshal([]byte(`"CoinSpend"`), &tt))
	assert.Equal(TransactionTypeCoinSpend, tt)

	assert.Nil(json.Unmarshal([]byte(`1`), &tt))
	assert.Equal(TransactionTypeVaultChangeDailySpendAccount, tt)

	assert.NotNil(json.Unmarshal([]byte(`"Teleport"`), &tt))
}
