// Package notify delivers side-effect notifications for new investor
// submissions. Mail delivery is not wired up; the log notifier stands in
// so the submission flow and its call sites stay in place.
package notify

import (
	"github.com/rs/zerolog/log"

	"github.com/leadengine/leadengine/internal/db/models"
)

// Notifier is told about domain events worth telling someone about.
// Implementations must not block the request path.
type Notifier interface {
	// SubmissionReceived fires after a public investor submission was stored.
	SubmissionReceived(investor *models.Investor)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

// SubmissionReceived logs the new submission.
func (LogNotifier) SubmissionReceived(investor *models.Investor) {
	log.Info().
		Str("investor_id", investor.ID).
		Str("city", investor.City).
		Str("source", investor.Source).
		Msg("new investor submission received")
}
