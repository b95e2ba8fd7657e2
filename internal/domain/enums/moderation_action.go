package enums

import "fmt"

type ModerationAction string

const (
	ModerationActionHide     ModerationAction = "hide"
	ModerationActionUnhide   ModerationAction = "unhide"
	ModerationActionRestrict ModerationAction = "restrict"
)

func ParseModerationAction(raw string) (ModerationAction, error) {
	switch ModerationAction(raw) {
	case ModerationActionHide, ModerationActionUnhide, ModerationActionRestrict:
		return ModerationAction(raw), nil
	}
	return "", fmt.Errorf("unknown moderation action %q", raw)
}

// TargetStatus maps an action to the moderation status it leaves behind.
func (a ModerationAction) TargetStatus() ModerationStatus {
	switch a {
	case ModerationActionHide:
		return ModerationStatusHidden
	case ModerationActionRestrict:
		return ModerationStatusRestricted
	default:
		return ModerationStatusVisible
	}
}
