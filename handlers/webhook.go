package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v71/github"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-github-sync/models"
	"feedback-github-sync/services"
)

type WebhookHandler struct {
	DB     *gorm.DB
	Secret []byte // shared hmac secret for signature verification
}

func NewWebhookHandler(db *gorm.DB, secret []byte) *WebhookHandler {
	return &WebhookHandler{
		DB:     db,
		Secret: secret,
	}
}

// HandleWebhook is the ingress for github webhook deliveries:
// header checks, signature verification over the raw body, dedup by
// delivery id, then dispatch by event type. Once the signature and dedup
// gates pass the response is 200 no matter what dispatch decides; missing
// feedback, unmapped actions and unknown events are normal no-op outcomes.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	deliveryID := c.GetHeader("X-GitHub-Delivery")
	eventType := c.GetHeader("X-GitHub-Event")
	if deliveryID == "" || eventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing delivery id or event type"})
		return
	}

	// a missing secret is our deployment being broken, not an attacker
	if len(h.Secret) == 0 {
		log.Printf("webhook secret is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook secret not configured"})
		return
	}

	// the raw body is what the sender signed; it must be captured before
	// any json parsing, a re-serialized body would not verify
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if err := github.ValidateSignature(signature, body, h.Secret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	// the unique index on delivery_id is the dedup gate: exactly one of
	// two concurrent deliveries with the same id gets the row
	delivery := models.WebhookDelivery{
		ID:         uuid.NewString(),
		DeliveryID: deliveryID,
		EventType:  eventType,
		ReceivedAt: time.Now(),
	}
	if err := h.DB.Create(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusAccepted, gin.H{"message": "duplicate delivery"})
			return
		}
		log.Printf("failed to record delivery %s: %v", deliveryID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record delivery"})
		return
	}

	// the delivery is accepted from here on: a retry from the sender
	// would short-circuit on the dedup gate, so faults past this point
	// are alerted, not surfaced as errors
	if err := h.dispatch(eventType, body); err != nil {
		services.NotifyProcessingFault(deliveryID, eventType, err)
	}

	h.markHandled(delivery.ID)
	c.Status(http.StatusOK)
}

func (h *WebhookHandler) dispatch(eventType string, body []byte) error {
	event, err := github.ParseWebHook(eventType, body)
	if err != nil {
		// unrecognized or malformed payloads are skipped, not failed
		log.Printf("cannot parse %s payload: %v", eventType, err)
		return nil
	}

	switch e := event.(type) {
	case *github.InstallationEvent:
		return h.handleInstallationEvent(e)
	case *github.PullRequestEvent:
		return h.handlePullRequestEvent(e)
	default:
		log.Printf("ignoring %s event", eventType)
		return nil
	}
}

func (h *WebhookHandler) handleInstallationEvent(e *github.InstallationEvent) error {
	installation := e.GetInstallation()
	if installation == nil || installation.GetID() == 0 {
		log.Printf("installation event without installation, skip")
		return nil
	}

	switch e.GetAction() {
	case "created":
		account := installation.GetAccount()
		_, err := services.UpsertInstallation(
			h.DB,
			installation.GetID(),
			account.GetID(),
			installation.GetAppID(),
			account.GetLogin(),
		)
		return err
	case "deleted":
		return services.DeleteInstallation(h.DB, installation.GetID())
	default:
		return nil
	}
}

func (h *WebhookHandler) handlePullRequestEvent(e *github.PullRequestEvent) error {
	pr := e.GetPullRequest()
	if pr == nil {
		log.Printf("pull_request event without pull request, skip")
		return nil
	}

	branch := pr.GetHead().GetRef()
	issueKey := services.ExtractIssueKeyFromBranch(branch)
	if issueKey == "" {
		log.Printf("no issue key in branch %s, skip", branch)
		return nil
	}

	orgID, err := services.GetOrganizationByInstallation(h.DB, e.GetInstallation().GetID())
	if err != nil {
		return err
	}
	if orgID == "" {
		log.Printf("no organization for installation %d, skip", e.GetInstallation().GetID())
		return nil
	}

	status, ok := services.MapPullRequestActionToStatus(
		services.PRAction(e.GetAction()),
		pr.GetMerged(),
		pr.GetBase().GetRef(),
		e.GetRepo().GetDefaultBranch(),
	)
	if !ok {
		log.Printf("pull_request action %s carries no status change, skip", e.GetAction())
		return nil
	}

	return services.UpdateFeedbackStatusByIssueKey(h.DB, orgID, issueKey, status)
}

// markHandled stamps the delivery's handled timestamp. Bookkeeping only:
// the delivery was already accepted, so a failure here is logged and the
// response is unaffected.
func (h *WebhookHandler) markHandled(id string) {
	now := time.Now()
	err := h.DB.Model(&models.WebhookDelivery{}).Where("id = ?", id).Update("handled_at", &now).Error
	if err != nil {
		log.Printf("failed to mark delivery %s handled: %v", id, err)
	}
}
