package messages

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.multisig/internal/metrics"
	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/internal/store"
	"uk.co.dudmesh.multisig/pkg/address"
	"uk.co.dudmesh.multisig/pkg/message"
)

// sweep prunes messages older than the retention duration from every indexed
// address. Addresses left with no messages are deleted and dropped from the
// index in a single index write at the end of the pass.
//
// A message that fails to decode stops the pass. Addresses emptied before the
// failure are still dropped from the index.
func (s *service) sweep() (model.SweepResult, error) {
	passID := uuid.NewString()
	now := s.now()
	result := model.SweepResult{}

	log.Infof("sweep %s: deleting messages older than %s", passID, s.settings.RetentionDuration)

	index, found, err := s.loadIndex()
	if err != nil {
		metrics.Sweeps.WithLabelValues("error").Inc()
		return result, err
	}
	if !found {
		log.Infof("sweep %s: no messages stored", passID)
		metrics.Sweeps.WithLabelValues("ok").Inc()
		return result, nil
	}

	var sweepErr error
	removed := [][]byte{}
	for _, addr := range index.Keys() {
		result.Addresses++
		pruned, empty, err := s.pruneAddress(addr, now)
		if err != nil {
			sweepErr = err
			break
		}
		result.PrunedMessages += pruned
		if empty {
			removed = append(removed, addr)
		}
	}

	if len(removed) > 0 {
		for _, addr := range removed {
			index.Remove(addr)
		}
		if err := s.saveIndex(index); err != nil && sweepErr == nil {
			sweepErr = err
		}
		result.RemovedAddresses = len(removed)
	}

	metrics.MessagesPruned.Add(float64(result.PrunedMessages))
	if sweepErr != nil {
		metrics.Sweeps.WithLabelValues("error").Inc()
		log.Errorf("sweep %s: failed after %d addresses: %+v", passID, result.Addresses, sweepErr)
		return result, sweepErr
	}

	metrics.Sweeps.WithLabelValues("ok").Inc()
	log.Infof("sweep %s: scanned %d addresses, pruned %d messages, removed %d addresses",
		passID, result.Addresses, result.PrunedMessages, result.RemovedAddresses)
	return result, nil
}

// pruneAddress rewrites the list for addr without expired messages. empty is
// true when nothing is left and addr should leave the index, which includes
// an indexed address whose list is already gone.
func (s *service) pruneAddress(addr []byte, now time.Time) (pruned int, empty bool, err error) {
	data, err := s.store.Get(addr)
	if err != nil {
		if errors.Is(err, store.ErrorKeyNotFound) {
			log.Warnf("no messages found for address in index %s", address.Fingerprint(addr))
			return 0, true, nil
		}
		return 0, false, internalError("reading message list", err)
	}

	list, err := message.DecodeList(data)
	if err != nil {
		return 0, false, corruptError(addr, err)
	}

	kept := make([][]byte, 0, len(list))
	for _, item := range list {
		m, err := message.Decode(item)
		if err != nil {
			return 0, false, corruptError(addr, err)
		}
		if retained(m.Created, now, s.settings.RetentionDuration) {
			kept = append(kept, item)
		}
	}
	pruned = len(list) - len(kept)

	if len(kept) == 0 {
		if err := s.store.Delete(addr); err != nil {
			return 0, false, internalError("deleting message list", err)
		}
		return pruned, true, nil
	}

	if pruned > 0 {
		if err := s.store.Put(addr, message.EncodeList(kept)); err != nil {
			return 0, false, internalError("writing message list", err)
		}
	}
	return pruned, false, nil
}
