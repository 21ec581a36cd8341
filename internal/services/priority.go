package services

import (
	"sort"
	"time"

	"fulfillment-system/internal/entities"
	"fulfillment-system/pkg/constants"
)

type PriorityTier int

// Tiers in precedence order; a lower value sorts first.
const (
	TierCritical PriorityTier = iota
	TierWarning
	TierMaterial
	TierNormal
)

func (t PriorityTier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierWarning:
		return "warning"
	case TierMaterial:
		return "material"
	default:
		return "normal"
	}
}

// QueueEntry is one scored row of the active-order queue.
type QueueEntry struct {
	Order             entities.Order
	Tier              PriorityTier
	DaysRemaining     int
	Score             int64
	IsCanariasUrgent  bool
	IsGroupedMaterial bool
}

// PriorityScorer ranks the active-order set by computed urgency. Pure: no
// I/O, the caller supplies the order set and the clock.
type PriorityScorer struct {
	criticalDays int
	warningDays  int
}

func NewPriorityScorer(criticalDays, warningDays int) *PriorityScorer {
	return &PriorityScorer{criticalDays: criticalDays, warningDays: warningDays}
}

// Rank produces a total order over the given active orders: critical before
// warning before material-grouped before normal, within a tier by ascending
// days remaining (no-due-date sentinel last), ties broken by creation time,
// oldest first.
func (s *PriorityScorer) Rank(orders []entities.Order, now time.Time) []QueueEntry {
	materialCounts := make(map[string]int)
	for _, o := range orders {
		if m := o.PrimaryMaterial(); m != "" {
			materialCounts[m]++
		}
	}

	entries := make([]QueueEntry, 0, len(orders))
	for _, o := range orders {
		entry := QueueEntry{
			Order:         o,
			DaysRemaining: o.DaysRemaining(now),
		}
		entry.IsCanariasUrgent = isCanariasUrgent(o, now)
		if m := o.PrimaryMaterial(); m != "" && materialCounts[m] > 1 {
			entry.IsGroupedMaterial = true
		}
		entry.Tier = s.tierFor(entry)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}
		return createdBefore(a.Order, b.Order)
	})

	for i := range entries {
		entries[i].Score = score(entries[i], i)
	}
	return entries
}

func (s *PriorityScorer) tierFor(e QueueEntry) PriorityTier {
	hasDueDate := e.DaysRemaining != entities.NoDueDateSentinel
	switch {
	case hasDueDate && e.DaysRemaining <= s.criticalDays:
		return TierCritical
	case e.IsCanariasUrgent:
		return TierCritical
	case hasDueDate && e.DaysRemaining <= s.warningDays:
		return TierWarning
	case e.IsGroupedMaterial:
		return TierMaterial
	default:
		return TierNormal
	}
}

// isCanariasUrgent marks Canary-region orders queued Monday through
// Wednesday: their longer transit window makes early-week dispatch
// disproportionately important.
func isCanariasUrgent(o entities.Order, now time.Time) bool {
	if o.DeliveryRegion != constants.RegionCanarias {
		return false
	}
	switch now.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday:
		return true
	default:
		return false
	}
}

func createdBefore(a, b entities.Order) bool {
	switch {
	case a.CreatedAt == nil:
		return false
	case b.CreatedAt == nil:
		return true
	default:
		return a.CreatedAt.Before(*b.CreatedAt)
	}
}

// score is a stable numeric sort key: re-sorting entries by ascending score
// reproduces the ranked order exactly.
func score(e QueueEntry, position int) int64 {
	days := int64(e.DaysRemaining)
	if days < -999 {
		days = -999
	}
	return int64(e.Tier)*100_000_000 + (days+999)*10_000 + int64(position%10_000)
}
