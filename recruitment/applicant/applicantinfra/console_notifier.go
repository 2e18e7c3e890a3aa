package applicantinfra

import (
	"context"

	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/recruitment/applicant"
)

// ConsoleNotifier logs notifications instead of sending them
type ConsoleNotifier struct{}

var _ applicant.Notifier = ConsoleNotifier{}

func NewConsoleNotifier() ConsoleNotifier {
	return ConsoleNotifier{}
}

func (ConsoleNotifier) Notify(_ context.Context, event applicant.Event) error {
	entry := logx.WithFields(logx.Fields{
		"event_id":     event.ID,
		"applicant_id": event.ApplicantID,
		"project_id":   event.ProjectID,
		"position":     event.Position,
		"email":        event.Email,
	})

	switch event.Type {
	case applicant.EventApplicantWaitlisted:
		entry.Infof("notify %s: added to the waitlist", event.FullName)
	case applicant.EventApplicantRegistered:
		entry.Infof("notify %s: registered at %s", event.FullName, event.AssignedLocation)
	default:
		entry.Infof("notify %s: status is now %s", event.FullName, event.Status)
	}
	return nil
}
