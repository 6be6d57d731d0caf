// Package state holds the in-memory planning board: every initiative, block
// and closed day, kept in the order the store returns them.
//
// A Board is owned by one caller (a CLI command or the TUI model) and mutated
// only by the service layer after a successful write. It is not safe for
// concurrent use; callers serialize mutating operations.
package state

import (
	"slices"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// Board is the application state for one planning board.
type Board struct {
	Initiatives []*domain.Initiative
	Blocks      []*domain.ScheduledBlock
	ClosedDays  []*domain.ClosedDay
}

// New returns an empty board.
func New() *Board {
	return &Board{
		Initiatives: []*domain.Initiative{},
		Blocks:      []*domain.ScheduledBlock{},
		ClosedDays:  []*domain.ClosedDay{},
	}
}

// Initiative looks up an initiative by ID.
func (b *Board) Initiative(id string) (*domain.Initiative, bool) {
	i := slices.IndexFunc(b.Initiatives, func(x *domain.Initiative) bool { return x.ID == id })
	if i < 0 {
		return nil, false
	}
	return b.Initiatives[i], true
}

// Block looks up a scheduled block by ID.
func (b *Board) Block(id string) (*domain.ScheduledBlock, bool) {
	i := slices.IndexFunc(b.Blocks, func(x *domain.ScheduledBlock) bool { return x.ID == id })
	if i < 0 {
		return nil, false
	}
	return b.Blocks[i], true
}

// ClosedDay looks up the closed day for date.
func (b *Board) ClosedDay(date time.Time) (*domain.ClosedDay, bool) {
	key := workweek.Key(date)
	i := slices.IndexFunc(b.ClosedDays, func(c *domain.ClosedDay) bool { return c.Key() == key })
	if i < 0 {
		return nil, false
	}
	return b.ClosedDays[i], true
}

// IsClosed reports whether date has been closed.
func (b *Board) IsClosed(date time.Time) bool {
	_, ok := b.ClosedDay(date)
	return ok
}

// ClosedSet returns the keys of every closed day.
func (b *Board) ClosedSet() map[string]bool {
	set := make(map[string]bool, len(b.ClosedDays))
	for _, c := range b.ClosedDays {
		set[c.Key()] = true
	}
	return set
}

// BlocksOf returns the blocks of one initiative, in board order.
func (b *Board) BlocksOf(initiativeID string) []*domain.ScheduledBlock {
	var out []*domain.ScheduledBlock
	for _, blk := range b.Blocks {
		if blk.InitiativeID == initiativeID {
			out = append(out, blk)
		}
	}
	return out
}

// BlocksCovering returns every block whose range contains date.
func (b *Board) BlocksCovering(date time.Time) []*domain.ScheduledBlock {
	var out []*domain.ScheduledBlock
	for _, blk := range b.Blocks {
		if blk.Covers(date) {
			out = append(out, blk)
		}
	}
	return out
}

// CoveringBlock returns a block of initiativeID covering date, skipping the
// block with ID except (pass "" to skip nothing).
func (b *Board) CoveringBlock(initiativeID string, date time.Time, except string) (*domain.ScheduledBlock, bool) {
	for _, blk := range b.Blocks {
		if blk.InitiativeID == initiativeID && blk.ID != except && blk.Covers(date) {
			return blk, true
		}
	}
	return nil, false
}

// AddInitiative appends i.
func (b *Board) AddInitiative(i *domain.Initiative) {
	b.Initiatives = append(b.Initiatives, i)
}

// ReplaceInitiative swaps the stored initiative with the same ID.
func (b *Board) ReplaceInitiative(i *domain.Initiative) {
	if idx := slices.IndexFunc(b.Initiatives, func(x *domain.Initiative) bool { return x.ID == i.ID }); idx >= 0 {
		b.Initiatives[idx] = i
	}
}

// RemoveInitiative drops the initiative and all of its blocks.
func (b *Board) RemoveInitiative(id string) {
	b.Blocks = slices.DeleteFunc(b.Blocks, func(x *domain.ScheduledBlock) bool { return x.InitiativeID == id })
	b.Initiatives = slices.DeleteFunc(b.Initiatives, func(x *domain.Initiative) bool { return x.ID == id })
}

// AddBlocks appends blocks.
func (b *Board) AddBlocks(blocks ...*domain.ScheduledBlock) {
	b.Blocks = append(b.Blocks, blocks...)
}

// ReplaceBlock swaps the stored block with the same ID.
func (b *Board) ReplaceBlock(blk *domain.ScheduledBlock) {
	if idx := slices.IndexFunc(b.Blocks, func(x *domain.ScheduledBlock) bool { return x.ID == blk.ID }); idx >= 0 {
		b.Blocks[idx] = blk
	}
}

// RemoveBlock drops one block.
func (b *Board) RemoveBlock(id string) {
	b.Blocks = slices.DeleteFunc(b.Blocks, func(x *domain.ScheduledBlock) bool { return x.ID == id })
}

// AddClosedDay inserts c keeping closed days ordered by date.
func (b *Board) AddClosedDay(c *domain.ClosedDay) {
	idx, _ := slices.BinarySearchFunc(b.ClosedDays, c.Key(), func(x *domain.ClosedDay, key string) int {
		switch {
		case x.Key() < key:
			return -1
		case x.Key() > key:
			return 1
		default:
			return 0
		}
	})
	b.ClosedDays = slices.Insert(b.ClosedDays, idx, c)
}

// RemoveClosedDay drops the closed day for date.
func (b *Board) RemoveClosedDay(date time.Time) {
	key := workweek.Key(date)
	b.ClosedDays = slices.DeleteFunc(b.ClosedDays, func(c *domain.ClosedDay) bool { return c.Key() == key })
}

// Reset empties the board.
func (b *Board) Reset() {
	*b = *New()
}
