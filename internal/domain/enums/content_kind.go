package enums

import "fmt"

type ContentKind string

const (
	ContentKindArticle ContentKind = "article"
	ContentKindVideo   ContentKind = "video"
	ContentKindCourse  ContentKind = "course"
	ContentKindLive    ContentKind = "live"
	ContentKindPodcast ContentKind = "podcast"
	ContentKindBook    ContentKind = "book"
	ContentKindComment ContentKind = "comment"
	ContentKindReview  ContentKind = "review"
)

// AllContentKinds lists every moderatable kind in queue display order.
var AllContentKinds = []ContentKind{
	ContentKindArticle,
	ContentKindVideo,
	ContentKindCourse,
	ContentKindLive,
	ContentKindPodcast,
	ContentKindBook,
	ContentKindComment,
	ContentKindReview,
}

func ParseContentKind(raw string) (ContentKind, error) {
	kind := ContentKind(raw)
	for _, known := range AllContentKinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", raw)
}

// IsResponseKind reports whether the kind is a response to base content
// (comments and reviews have no title, slug or publish lifecycle).
func (k ContentKind) IsResponseKind() bool {
	return k == ContentKindComment || k == ContentKindReview
}
