package services

import (
	"strings"

	"feedback-github-sync/models"
)

// PRAction is the subset of pull_request webhook actions that can move a
// feedback item's status.
type PRAction string

const (
	PRActionOpened           PRAction = "opened"
	PRActionReopened         PRAction = "reopened"
	PRActionReadyForReview   PRAction = "ready_for_review"
	PRActionClosed           PRAction = "closed"
	PRActionConvertedToDraft PRAction = "converted_to_draft"
)

// MapPullRequestActionToStatus decides the feedback status that follows
// from a pull request event. The second return is false when the event
// carries no status change, which callers must treat as "leave the status
// alone", not as clearing it.
//
// A merge into the default branch means the work shipped (completed); a
// merge into any other branch (a release branch, say) means it is staged
// but not yet out, hence paused. A PR closed without merging says nothing
// about the feedback and changes nothing.
func MapPullRequestActionToStatus(action PRAction, merged bool, baseBranch, defaultBranch string) (models.FeedbackStatus, bool) {
	switch action {
	case PRActionReadyForReview:
		return models.StatusTechnicalReview, true
	case PRActionOpened, PRActionReopened, PRActionConvertedToDraft:
		return models.StatusInProgress, true
	case PRActionClosed:
		if !merged {
			return "", false
		}
		if strings.EqualFold(baseBranch, defaultBranch) {
			return models.StatusCompleted, true
		}
		return models.StatusPaused, true
	default:
		return "", false
	}
}
