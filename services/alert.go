package services

import (
	"fmt"
	"log"
	"os"

	"github.com/slack-go/slack"
)

// IsTestMode disables outbound alert delivery in tests.
var IsTestMode = false

// NotifyProcessingFault tells operators that a delivery was accepted but
// its processing failed afterwards. Redelivery cannot fix this case: the
// sender's retry would hit the dedup gate and short-circuit, so an alert
// is the only signal that the event was lost. Best-effort; failures are
// logged and swallowed.
func NotifyProcessingFault(deliveryID, eventType string, processingErr error) {
	log.Printf("processing fault for delivery %s (%s): %v", deliveryID, eventType, processingErr)

	if IsTestMode {
		return
	}

	token := os.Getenv("SLACK_ALERT_TOKEN")
	channel := os.Getenv("SLACK_ALERT_CHANNEL")
	if token == "" || channel == "" {
		return
	}

	api := slack.New(token)
	message := fmt.Sprintf("webhook delivery %s (%s) was accepted but failed during processing: %v", deliveryID, eventType, processingErr)
	_, _, err := api.PostMessage(channel, slack.MsgOptionText(message, false))
	if err != nil {
		log.Printf("failed to send processing fault alert: %v", err)
	}
}
