package enums

import "fmt"

type ReportReason string

const (
	ReportReasonScam           ReportReason = "scam"
	ReportReasonSexual         ReportReason = "sexual"
	ReportReasonViolence       ReportReason = "violence"
	ReportReasonHate           ReportReason = "hate"
	ReportReasonMisinformation ReportReason = "misinformation"
	ReportReasonCopyright      ReportReason = "copyright"
	ReportReasonAbuse          ReportReason = "abuse"
	ReportReasonSpam           ReportReason = "spam"
	ReportReasonOther          ReportReason = "other"
)

var AllReportReasons = []ReportReason{
	ReportReasonScam,
	ReportReasonSexual,
	ReportReasonViolence,
	ReportReasonHate,
	ReportReasonMisinformation,
	ReportReasonCopyright,
	ReportReasonAbuse,
	ReportReasonSpam,
	ReportReasonOther,
}

func ParseReportReason(raw string) (ReportReason, error) {
	reason := ReportReason(raw)
	for _, known := range AllReportReasons {
		if reason == known {
			return reason, nil
		}
	}
	return "", fmt.Errorf("unknown report reason %q", raw)
}
