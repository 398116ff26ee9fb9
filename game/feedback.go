package game

import "fmt"

// FeedbackPolicy controls what a round reveals to each strategy's update.
type FeedbackPolicy int

const (
	// FeedbackFull reveals the true outcome and the player's own score.
	FeedbackFull FeedbackPolicy = iota
	// FeedbackPartial reveals only the player's own score, never the outcome.
	FeedbackPartial
	// FeedbackNone performs no update at all.
	FeedbackNone
)

func (p FeedbackPolicy) String() string {
	switch p {
	case FeedbackFull:
		return "full"
	case FeedbackPartial:
		return "partial"
	case FeedbackNone:
		return "none"
	default:
		return fmt.Sprintf("feedback(%d)", int(p))
	}
}

// ParseFeedbackPolicy resolves a configured policy name.
func ParseFeedbackPolicy(name string) (FeedbackPolicy, error) {
	switch name {
	case "full":
		return FeedbackFull, nil
	case "partial":
		return FeedbackPartial, nil
	case "none":
		return FeedbackNone, nil
	default:
		return 0, fmt.Errorf("unknown feedback policy %q", name)
	}
}
