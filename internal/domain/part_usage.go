package domain

import "time"

// PartUsage is one append-only ledger entry recording a part consumed on a
// ticket. Quantity is always positive, unit cost never negative.
type PartUsage struct {
	ID         string
	TicketID   string
	PartName   string
	Quantity   int
	UnitCost   float64
	RecordedAt time.Time
}

// LineCost returns quantity times unit cost for this entry.
func (p *PartUsage) LineCost() float64 {
	return float64(p.Quantity) * p.UnitCost
}
