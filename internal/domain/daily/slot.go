package daily

import (
	"errors"
	"fmt"
)

// ErrPoolTooSmall is returned when a pool cannot feed a single day at its rate.
var ErrPoolTooSmall = errors.New("content pool is smaller than its per-day rate")

// Slot locates one day inside a pool's epoch cycle.
type Slot struct {
	EpochDays int `json:"epoch_days"` // floor(poolSize / itemsPerDay)
	Epoch     int `json:"epoch"`
	Offset    int `json:"offset"` // first index into the epoch's shuffled pool
	Count     int `json:"count"`  // items consumed per day
}

// Address computes the slot of dayIndex for a pool of poolSize consumed itemsPerDay at a time.
//
// Negative day indexes (dates before Epoch) use floor division so Offset stays in range.
// Because EpochDays*itemsPerDay <= poolSize, Offset+Count never exceeds poolSize.
func Address(dayIndex, poolSize, itemsPerDay int) (Slot, error) {
	if itemsPerDay < 1 || poolSize < itemsPerDay {
		return Slot{}, fmt.Errorf("%w: pool size %d, items per day %d", ErrPoolTooSmall, poolSize, itemsPerDay)
	}
	epochDays := poolSize / itemsPerDay
	epoch, day := floorDivMod(dayIndex, epochDays)
	return Slot{
		EpochDays: epochDays,
		Epoch:     epoch,
		Offset:    day * itemsPerDay,
		Count:     itemsPerDay,
	}, nil
}

func floorDivMod(a, b int) (q, r int) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// PoolRate configures how one pool is consumed and how its per-epoch seed is derived.
type PoolRate struct {
	ItemsPerDay    int
	SeedMultiplier uint32
	SeedOffset     uint32
}

// Seed returns (epoch*SeedMultiplier + SeedOffset) mod 2^32.
func (r PoolRate) Seed(epoch int) uint32 {
	return uint32(epoch)*r.SeedMultiplier + r.SeedOffset
}

var (
	// DefaultQuizRate serves two quiz questions per day.
	DefaultQuizRate = PoolRate{ItemsPerDay: 2, SeedMultiplier: 2654435761, SeedOffset: 12345}
	// DefaultCurrentAffairsRate serves one current-affairs item per day.
	DefaultCurrentAffairsRate = PoolRate{ItemsPerDay: 1, SeedMultiplier: 2246822519, SeedOffset: 67890}
)

// pick returns the day's items of pool under rate.
func pick[T any](pool []T, dayIndex int, rate PoolRate) ([]T, Slot, error) {
	slot, err := Address(dayIndex, len(pool), rate.ItemsPerDay)
	if err != nil {
		return nil, Slot{}, err
	}
	shuffled := Shuffle(pool, rate.Seed(slot.Epoch))
	out := make([]T, slot.Count)
	copy(out, shuffled[slot.Offset:slot.Offset+slot.Count])
	return out, slot, nil
}
