package enums

import "fmt"

type PublishStatus string

const (
	PublishStatusPublished PublishStatus = "published"
	PublishStatusDraft     PublishStatus = "draft"
	PublishStatusArchived  PublishStatus = "archived"
)

func ParsePublishStatus(raw string) (PublishStatus, error) {
	switch PublishStatus(raw) {
	case PublishStatusPublished, PublishStatusDraft, PublishStatusArchived:
		return PublishStatus(raw), nil
	}
	return "", fmt.Errorf("unknown publish status %q", raw)
}
