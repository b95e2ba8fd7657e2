package signals

import (
	"sort"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
)

// The weight table and tier thresholds are a contract shared with the
// policy engine and the trust scorer. Changing them changes queue order
// and automation eligibility everywhere at once.
var reasonWeights = map[enums.ReportReason]int{
	enums.ReportReasonScam:           5,
	enums.ReportReasonSexual:         4,
	enums.ReportReasonViolence:       4,
	enums.ReportReasonHate:           4,
	enums.ReportReasonMisinformation: 3,
	enums.ReportReasonCopyright:      3,
	enums.ReportReasonAbuse:          3,
	enums.ReportReasonSpam:           2,
	enums.ReportReasonOther:          1,
}

const topReasonLimit = 3

func ReasonWeight(reason enums.ReportReason) int {
	return reasonWeights[reason]
}

type ReasonCount struct {
	Reason enums.ReportReason `json:"reason"`
	Count  int                `json:"count"`
}

// TopReasons returns up to three reason codes by descending count, ties
// broken by ascending reason code.
func TopReasons(counts map[enums.ReportReason]int) []ReasonCount {
	if len(counts) == 0 {
		return nil
	}

	reasons := make([]ReasonCount, 0, len(counts))
	for reason, count := range counts {
		if count <= 0 {
			continue
		}
		reasons = append(reasons, ReasonCount{Reason: reason, Count: count})
	}

	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return reasons[i].Reason < reasons[j].Reason
	})

	if len(reasons) > topReasonLimit {
		reasons = reasons[:topReasonLimit]
	}
	return reasons
}

func HighestWeight(topReasons []ReasonCount) int {
	highest := 0
	for _, rc := range topReasons {
		if w := ReasonWeight(rc.Reason); w > highest {
			highest = w
		}
	}
	return highest
}

func Score(openReports, uniqueReporters, highestWeight int) int {
	return openReports + uniqueReporters + highestWeight
}

func TierForScore(score int) enums.PriorityTier {
	switch {
	case score >= 12:
		return enums.PriorityTierCritical
	case score >= 8:
		return enums.PriorityTierHigh
	case score >= 4:
		return enums.PriorityTierMedium
	case score >= 1:
		return enums.PriorityTierLow
	default:
		return enums.PriorityTierNone
	}
}
