package model

import (
	"time"

	"uk.co.dudmesh.multisig/pkg/message"
)

// IndexKey holds the set of every address with stored messages. It can never
// be used as a user address.
const IndexKey = "all_addresses"

const (
	MaxAddressSize         = 128
	MaxTransactionDataSize = 2048
)

type StoreMessageRequest struct {
	UserMessage *message.UserMessage `json:"userMessage"`
}

type StoreMessageResponse struct{}

type GetMessagesRequest struct {
	Address []byte `json:"address"`
}

type GetMessagesResponse struct {
	UserMessages []*message.UserMessage `json:"userMessages"`
}

// Settings are the message service values that may change at runtime.
type Settings struct {
	RetentionDuration time.Duration
	AcceptanceWindow  time.Duration
}

type Stats struct {
	Addresses int
	Settings  Settings
}

type StatsResponse struct {
	Addresses         int    `json:"addresses"`
	RetentionDuration string `json:"retentionDuration"`
	AcceptanceWindow  string `json:"acceptanceWindow"`
}

type SweepResult struct {
	Addresses        int
	PrunedMessages   int
	RemovedAddresses int
}
