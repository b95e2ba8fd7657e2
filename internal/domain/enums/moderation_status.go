package enums

import "fmt"

type ModerationStatus string

const (
	ModerationStatusVisible    ModerationStatus = "visible"
	ModerationStatusHidden     ModerationStatus = "hidden"
	ModerationStatusRestricted ModerationStatus = "restricted"
)

func ParseModerationStatus(raw string) (ModerationStatus, error) {
	switch ModerationStatus(raw) {
	case ModerationStatusVisible, ModerationStatusHidden, ModerationStatusRestricted:
		return ModerationStatus(raw), nil
	}
	return "", fmt.Errorf("unknown moderation status %q", raw)
}
