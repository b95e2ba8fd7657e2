package enums

import "fmt"

type PriorityTier string

const (
	PriorityTierNone     PriorityTier = "none"
	PriorityTierLow      PriorityTier = "low"
	PriorityTierMedium   PriorityTier = "medium"
	PriorityTierHigh     PriorityTier = "high"
	PriorityTierCritical PriorityTier = "critical"
)

var tierRanks = map[PriorityTier]int{
	PriorityTierNone:     0,
	PriorityTierLow:      1,
	PriorityTierMedium:   2,
	PriorityTierHigh:     3,
	PriorityTierCritical: 4,
}

func ParsePriorityTier(raw string) (PriorityTier, error) {
	tier := PriorityTier(raw)
	if _, ok := tierRanks[tier]; !ok {
		return "", fmt.Errorf("unknown priority tier %q", raw)
	}
	return tier, nil
}

func (t PriorityTier) Rank() int {
	return tierRanks[t]
}

func (t PriorityTier) AtLeast(other PriorityTier) bool {
	return t.Rank() >= other.Rank()
}
