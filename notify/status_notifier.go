package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/opencongress/congresso/models"
)

// StatusChangeNotifier emails the submitting author when their abstract's
// review status changes. Only author-facing decisions produce an email;
// internal moves like submitted -> reviewing are silent.
type StatusChangeNotifier struct {
	provider EmailProvider
}

func NewStatusChangeNotifier(provider EmailProvider) *StatusChangeNotifier {
	return &StatusChangeNotifier{provider: provider}
}

func (n *StatusChangeNotifier) NotifyStatusChange(ctx context.Context, abstract *models.Abstract, from, to models.AbstractStatus) error {
	subject, body, ok := composeStatusEmail(abstract, to)
	if !ok {
		return nil
	}
	if abstract.AuthorEmail == "" {
		log.Printf("WARN (StatusChangeNotifier): Abstract %s has no author email; skipping %s notification", abstract.ID, to)
		return nil
	}
	if err := n.provider.Send(ctx, abstract.AuthorEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send %s notification for abstract %s: %w", to, abstract.ID, err)
	}
	log.Printf("INFO (StatusChangeNotifier): Sent %s notification for abstract %s to %s", to, abstract.ID, abstract.AuthorEmail)
	return nil
}

// composeStatusEmail builds the subject and body for a decision email.
// The third return is false when the target status carries no
// author-facing message.
func composeStatusEmail(abstract *models.Abstract, to models.AbstractStatus) (string, string, bool) {
	greeting := fmt.Sprintf("Dear %s %s,\n\n", abstract.AuthorName, abstract.AuthorSurname)

	switch to {
	case models.AbstractStatusApproved:
		return fmt.Sprintf("Abstract approved: %s", abstract.Title),
			greeting + fmt.Sprintf(
				"Your abstract %q has been approved for presentation as %s.\n\nPlease upload the final version of your work through the submission portal.\n",
				abstract.Title, abstract.Type),
			true
	case models.AbstractStatusRejected:
		return fmt.Sprintf("Abstract decision: %s", abstract.Title),
			greeting + fmt.Sprintf(
				"We regret to inform you that your abstract %q was not accepted.\n\nThank you for your submission.\n",
				abstract.Title),
			true
	case models.AbstractStatusTypeChange:
		return fmt.Sprintf("Presentation format change proposed: %s", abstract.Title),
			greeting + fmt.Sprintf(
				"The review committee proposes presenting your abstract %q as %s instead of %s.\n\nPlease confirm the change through the submission portal.\n",
				abstract.Title, abstract.Type.Flipped(), abstract.Type),
			true
	case models.AbstractStatusFinalVersion:
		return fmt.Sprintf("Final version received: %s", abstract.Title),
			greeting + fmt.Sprintf(
				"We received the final version of your abstract %q. No further action is needed.\n",
				abstract.Title),
			true
	default:
		return "", "", false
	}
}
