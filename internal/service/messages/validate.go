package messages

import (
	"errors"
	"time"

	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/pkg/message"
)

// validate checks a submission in a fixed order and returns the first
// failure. The acceptance window is inclusive: created == now±window passes.
func validate(m *message.UserMessage, now time.Time, window time.Duration) error {
	if m == nil {
		return model.ErrorMissingUserMessage
	}

	if len(m.Address) == 0 || len(m.Address) > model.MaxAddressSize {
		return model.ErrorInvalidAddressSize
	}

	if string(m.Address) == model.IndexKey {
		return model.ErrorReservedAddress
	}

	if !withinWindow(m.Created, now, window) {
		return model.ErrorCreatedOutsideWindow
	}

	if len(m.TransactionData) == 0 || len(m.TransactionData) > model.MaxTransactionDataSize {
		return model.ErrorInvalidTransactionData
	}

	return nil
}

func withinWindow(created uint64, now time.Time, window time.Duration) bool {
	nowSecs := unixSeconds(now)
	windowSecs := uint64(window / time.Second)
	if created >= nowSecs {
		return created-nowSecs <= windowSecs
	}
	return nowSecs-created <= windowSecs
}

// retained reports whether a message survives a sweep at now. A message
// exactly retention old is kept.
func retained(created uint64, now time.Time, retention time.Duration) bool {
	cutoff := now.Unix() - int64(retention/time.Second)
	if cutoff <= 0 {
		return true
	}
	return created >= uint64(cutoff)
}

func unixSeconds(t time.Time) uint64 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, model.ErrorMissingUserMessage):
		return "missing_message"
	case errors.Is(err, model.ErrorInvalidAddressSize):
		return "address_size"
	case errors.Is(err, model.ErrorReservedAddress):
		return "reserved_address"
	case errors.Is(err, model.ErrorCreatedOutsideWindow):
		return "created_outside_window"
	case errors.Is(err, model.ErrorInvalidTransactionData):
		return "transaction_data"
	default:
		return "other"
	}
}
