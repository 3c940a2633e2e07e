// services/random.go
package services

import (
	"crypto/sha256"
	"encoding/binary"

	"action-quest-system/models"
)

// One oracle word per checkpoint is stretched into per-ticket values by
// hashing the word with a block index. Each digest yields 16 uint16
// lanes; MaxUniqueTickets caps how many distinct lanes exist before the
// ticket index wraps and reuses bytes. The wraparound correlates
// outcomes slightly beyond that point, which is an accepted statistical
// approximation.

const (
	lanesPerDigest = sha256.Size / 2

	// MaxUniqueTickets is 15 digests' worth of lanes.
	MaxUniqueTickets = 240
)

// ticketValue derives the uint16 chance roll for ticket idx from a
// checkpoint word.
func ticketValue(word uint64, idx int) uint16 {
	idx = idx % MaxUniqueTickets
	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:8], word)
	binary.BigEndian.PutUint32(buf[8:], uint32(idx/lanesPerDigest))
	sum := sha256.Sum256(buf[:])
	off := (idx % lanesPerDigest) * 2
	return binary.BigEndian.Uint16(sum[off : off+2])
}

// mixWord folds a player id into the checkpoint word so players sharing
// a checkpoint do not share rolls.
func mixWord(word uint64, playerID int64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], word)
	binary.BigEndian.PutUint64(buf[8:], uint64(playerID))
	sum := sha256.Sum256(buf[:])
	mixed := binary.BigEndian.Uint64(sum[:8])
	if mixed == 0 {
		mixed = 1
	}
	return mixed
}

// resolveTickets rolls numTickets against a snapshot table sorted
// strictly ascending by chance. The first entry whose chance covers the
// roll wins the ticket; table order defines priority, not summed
// probability. A roll above the last chance wins nothing.
func resolveTickets(word uint64, rewards []models.RandomRewardSnapshot, numTickets int) []models.Equipment {
	if word == 0 || numTickets <= 0 || len(rewards) == 0 {
		return nil
	}
	amounts := make(map[int64]int64)
	var order []int64
	for i := 0; i < numTickets; i++ {
		roll := int(ticketValue(word, i))
		for _, rr := range rewards {
			if roll <= rr.Chance {
				if _, ok := amounts[rr.ItemID]; !ok {
					order = append(order, rr.ItemID)
				}
				amounts[rr.ItemID] += rr.Amount
				break
			}
		}
	}
	out := make([]models.Equipment, 0, len(order))
	for _, itemID := range order {
		out = append(out, models.Equipment{ItemID: itemID, Amount: amounts[itemID]})
	}
	return out
}

// snapshotRandomRewards copies an action's current random table into the
// form embedded on pending tickets.
func snapshotRandomRewards(rewards []models.RandomReward) []models.RandomRewardSnapshot {
	out := make([]models.RandomRewardSnapshot, 0, len(rewards))
	for _, rr := range rewards {
		out = append(out, models.RandomRewardSnapshot{ItemID: rr.ItemID, Chance: rr.Chance, Amount: rr.Amount})
	}
	return out
}
