package messages

import (
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.multisig/internal/metrics"
	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/internal/store"
	"uk.co.dudmesh.multisig/pkg/address"
	"uk.co.dudmesh.multisig/pkg/message"
)

var indexKey = []byte(model.IndexKey)

// internalError logs the cause and returns an error that is opaque to
// callers but still matches model.ErrorInternal and the cause.
func internalError(what string, err error) error {
	log.Errorf("%s: %+v", what, err)
	return fmt.Errorf("%w: %s: %w", model.ErrorInternal, what, err)
}

func corruptError(addr []byte, err error) error {
	log.Errorf("corrupt messages for address %s: %+v", address.Fingerprint(addr), err)
	return fmt.Errorf("%w: address %s: %w", model.ErrorCorruptMessage, address.Fingerprint(addr), err)
}

// insert appends m to its address list and then adds the address to the
// index. The two writes are not linked: if the index write fails the list
// keeps the message and the next insert for the address repairs the index.
func (s *service) insert(m *message.UserMessage) error {
	if err := validate(m, s.now(), s.settings.AcceptanceWindow); err != nil {
		metrics.MessagesRejected.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	encoded := message.Encode(m)

	list, err := s.loadList(m.Address)
	if err != nil {
		return err
	}
	list = append(list, encoded)
	if err := s.store.Put(m.Address, message.EncodeList(list)); err != nil {
		return internalError("writing message list", err)
	}

	index, _, err := s.loadIndex()
	if err != nil {
		return err
	}
	if !index.Has(m.Address) {
		index.Add(m.Address)
		if err := s.saveIndex(index); err != nil {
			return err
		}
	}

	metrics.MessagesStored.Inc()
	log.Debugf("stored %s message for address %s (%d stored)", m.TransactionType, address.Fingerprint(m.Address), len(list))
	return nil
}

func (s *service) retrieve(addr []byte) ([]*message.UserMessage, error) {
	res := []*message.UserMessage{}
	if string(addr) == model.IndexKey {
		return res, nil
	}

	list, err := s.loadList(addr)
	if err != nil {
		return nil, err
	}

	for _, item := range list {
		m, err := message.Decode(item)
		if err != nil {
			return nil, corruptError(addr, err)
		}
		res = append(res, m)
	}
	return res, nil
}

// loadList returns the encoded messages stored for addr, or an empty list
// when there are none.
func (s *service) loadList(addr []byte) ([][]byte, error) {
	data, err := s.store.Get(addr)
	if err != nil {
		if errors.Is(err, store.ErrorKeyNotFound) {
			return [][]byte{}, nil
		}
		return nil, internalError("reading message list", err)
	}

	list, err := message.DecodeList(data)
	if err != nil {
		return nil, corruptError(addr, err)
	}
	return list, nil
}

// loadIndex returns the global address index and whether it was present.
func (s *service) loadIndex() (message.KeySet, bool, error) {
	data, err := s.store.Get(indexKey)
	if err != nil {
		if errors.Is(err, store.ErrorKeyNotFound) {
			return message.NewKeySet(), false, nil
		}
		return nil, false, internalError("reading address index", err)
	}

	index, err := message.DecodeKeySet(data)
	if err != nil {
		return nil, false, internalError("decoding address index", err)
	}
	return index, true, nil
}

// saveIndex writes the index, deleting the key instead of writing an empty set.
func (s *service) saveIndex(index message.KeySet) error {
	if len(index) == 0 {
		if err := s.store.Delete(indexKey); err != nil {
			return internalError("deleting address index", err)
		}
	} else if err := s.store.Put(indexKey, message.EncodeKeySet(index)); err != nil {
		return internalError("writing address index", err)
	}

	metrics.IndexedAddresses.Set(float64(len(index)))
	return nil
}

// purge deletes every indexed address list and the index itself.
func (s *service) purge() error {
	index, found, err := s.loadIndex()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	for _, addr := range index.Keys() {
		if err := s.store.Delete(addr); err != nil {
			return internalError("deleting message list", err)
		}
	}
	if err := s.saveIndex(message.NewKeySet()); err != nil {
		return err
	}

	log.Infof("purged messages for %d addresses", len(index))
	return nil
}

func (s *service) stats() (model.Stats, error) {
	index, _, err := s.loadIndex()
	if err != nil {
		return model.Stats{}, err
	}
	return model.Stats{
		Addresses: len(index),
		Settings:  s.settings,
	}, nil
}
