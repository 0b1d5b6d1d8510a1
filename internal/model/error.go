package model

import (
	"errors"
	"fmt"
)

var ErrorInvalidInput = errors.New("invalid input")
var ErrorInternal = errors.New("internal data error")
var ErrorServiceClosed = errors.New("message service closed")

var (
	ErrorMissingUserMessage     = fmt.Errorf("%w: missing user message", ErrorInvalidInput)
	ErrorInvalidAddressSize     = fmt.Errorf("%w: address size failed validation", ErrorInvalidInput)
	ErrorReservedAddress        = fmt.Errorf("%w: address failed validation", ErrorInvalidInput)
	ErrorCreatedOutsideWindow   = fmt.Errorf("%w: message creation time outside of acceptable server time window", ErrorInvalidInput)
	ErrorInvalidTransactionData = fmt.Errorf("%w: transaction data failed validation", ErrorInvalidInput)
)

// ErrorCorruptMessage is returned when data written by the message service
// no longer decodes.
var ErrorCorruptMessage = fmt.Errorf("%w: corrupt stored message", ErrorInternal)

func IsValidation(err error) bool {
	return errors.Is(err, ErrorInvalidInput)
}
