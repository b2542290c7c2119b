package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feedback-github-sync/models"
)

func TestMapPullRequestActionToStatus(t *testing.T) {
	tests := []struct {
		name          string
		action        PRAction
		merged        bool
		baseBranch    string
		defaultBranch string
		want          models.FeedbackStatus
		wantChange    bool
	}{
		{"ready for review", PRActionReadyForReview, false, "main", "main", models.StatusTechnicalReview, true},
		{"opened", PRActionOpened, false, "main", "main", models.StatusInProgress, true},
		{"reopened", PRActionReopened, false, "main", "main", models.StatusInProgress, true},
		{"converted to draft", PRActionConvertedToDraft, false, "main", "main", models.StatusInProgress, true},
		{"merged into default", PRActionClosed, true, "main", "main", models.StatusCompleted, true},
		{"merged into default different case", PRActionClosed, true, "Main", "main", models.StatusCompleted, true},
		{"merged into release branch", PRActionClosed, true, "release/1.0", "main", models.StatusPaused, true},
		{"closed without merge", PRActionClosed, false, "main", "main", "", false},
		{"closed without merge on release branch", PRActionClosed, false, "release/1.0", "main", "", false},
		{"unknown action", PRAction("labeled"), false, "main", "main", "", false},
		{"unknown action even when merged", PRAction("synchronize"), true, "main", "main", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := MapPullRequestActionToStatus(tt.action, tt.merged, tt.baseBranch, tt.defaultBranch)
			assert.Equal(t, tt.wantChange, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}
