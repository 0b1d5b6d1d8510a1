package message

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the UserMessage protobuf encoding.
const (
	fieldCreated         protowire.Number = 1
	fieldAddress         protowire.Number = 2
	fieldTransactionType protowire.Number = 3
	fieldTransactionData protowire.Number = 4
)

// Lists and key sets are a repeated bytes field 1.
const fieldItem protowire.Number = 1

var ErrorMalformed = errors.New("malformed encoding")

// Encode writes m in protobuf wire format. Zero values are omitted, as
// proto3 does.
func Encode(m *UserMessage) []byte {
	var b []byte
	if m.Created != 0 {
		b = protowire.AppendTag(b, fieldCreated, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Created)
	}
	if len(m.Address) > 0 {
		b = protowire.AppendTag(b, fieldAddress, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Address)
	}
	if m.TransactionType != 0 {
		b = protowire.AppendTag(b, fieldTransactionType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.TransactionType)))
	}
	if len(m.TransactionData) > 0 {
		b = protowire.AppendTag(b, fieldTransactionData, protowire.BytesType)
		b = protowire.AppendBytes(b, m.TransactionData)
	}
	return b
}

func Decode(data []byte) (*UserMessage, error) {
	m := &UserMessage{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: reading tag: %v", ErrorMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldCreated && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: reading created: %v", ErrorMalformed, protowire.ParseError(n))
			}
			m.Created = v
			data = data[n:]
		case num == fieldAddress && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: reading address: %v", ErrorMalformed, protowire.ParseError(n))
			}
			m.Address = append([]byte(nil), v...)
			data = data[n:]
		case num == fieldTransactionType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: reading transaction type: %v", ErrorMalformed, protowire.ParseError(n))
			}
			m.TransactionType = TransactionType(int32(v))
			data = data[n:]
		case num == fieldTransactionData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: reading transaction data: %v", ErrorMalformed, protowire.ParseError(n))
			}
			m.TransactionData = append([]byte(nil), v...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("%w: skipping field %d: %v", ErrorMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return m, nil
}

func EncodeList(items [][]byte) []byte {
	var b []byte
	for _, item := range items {
		b = protowire.AppendTag(b, fieldItem, protowire.BytesType)
		b = protowire.AppendBytes(b, item)
	}
	return b
}

func DecodeList(data []byte) ([][]byte, error) {
	items := [][]byte{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: reading list tag: %v", ErrorMalformed, protowire.ParseError(n))
		}
		if num != fieldItem || typ != protowire.BytesType {
			return nil, fmt.Errorf("%w: unexpected list field %d", ErrorMalformed, num)
		}
		data = data[n:]

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: reading list item: %v", ErrorMalformed, protowire.ParseError(n))
		}
		items = append(items, append([]byte(nil), v...))
		data = data[n:]
	}
	return items, nil
}

// KeySet is a set of byte-string keys.
type KeySet map[string]struct{}

func NewKeySet(keys ...[]byte) KeySet {
	s := KeySet{}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s KeySet) Add(key []byte) {
	s[string(key)] = struct{}{}
}

func (s KeySet) Remove(key []byte) {
	delete(s, string(key))
}

func (s KeySet) Has(key []byte) bool {
	_, ok := s[string(key)]
	return ok
}

// Keys returns the members in byte order.
func (s KeySet) Keys() [][]byte {
	keys := make([][]byte, 0, len(s))
	for k := range s {
		keys = append(keys, []byte(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	return keys
}

// EncodeKeySet is deterministic: members are written in byte order.
func EncodeKeySet(s KeySet) []byte {
	return EncodeList(s.Keys())
}

func DecodeKeySet(data []byte) (KeySet, error) {
	keys, err := DecodeList(data)
	if err != nil {
		return nil, fmt.Errorf("decoding key set: %w", err)
	}
	return NewKeySet(keys...), nil
}
