package message

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type TransactionType int32

const (
	TransactionTypeVaultWithdraw TransactionType = iota
	TransactionTypeVaultChangeDailySpendAccount
	TransactionTypeVaultChangeDailySpendAmount
	TransactionTypeCoinSpend
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypeVaultWithdraw:                "VaultWithdraw",
	TransactionTypeVaultChangeDailySpendAccount: "VaultChangeDailySpendAccount",
	TransactionTypeVaultChangeDailySpendAmount:  "VaultChangeDailySpendAmount",
	TransactionTypeCoinSpend:                    "CoinSpend",
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return strconv.FormatInt(int64(t), 10)
}

// MarshalJSON writes known types by name and anything else as a number, so
// values from newer clients survive a round trip.
func (t TransactionType) MarshalJSON() ([]byte, error) {
	if name, ok := transactionTypeNames[t]; ok {
		return json.Marshal(name)
	}
	return json.Marshal(int32(t))
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for k, v := range transactionTypeNames {
			if v == name {
				*t = k
				return nil
			}
		}
		return fmt.Errorf("unknown transaction type: %s", name)
	}

	var n int32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshalling transaction type: %w", err)
	}
	*t = TransactionType(n)
	return nil
}

// UserMessage is a signed multi-party transaction request addressed to a
// vault or account. The server never interprets TransactionData.
type UserMessage struct {
	Created         uint64          `json:"created"`
	Address         []byte          `json:"address"`
	TransactionType TransactionType `json:"transactionType"`
	TransactionData []byte          `json:"transactionData"`
}
