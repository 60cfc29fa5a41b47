package collab

import (
	"context"

	"github.com/voluntr/voluntr/pkg/logger"
)

// LoggingSink is a notification/reward sink that only logs. It stands in
// for the real collaborators in dev mode and never fails.
type LoggingSink struct {
	log logger.Logger
}

// NewLoggingSink creates a sink that writes every call to the log.
func NewLoggingSink(l logger.Logger) *LoggingSink {
	if l == nil {
		l = logger.Get().Named("collab")
	}
	return &LoggingSink{log: l}
}

func (s *LoggingSink) Notify(ctx context.Context, kind string, payload map[string]string) error {
	s.log.Info(ctx, "notify",
		logger.String("kind", kind),
		logger.String("recipient", payload["recipient"]),
		logger.String("application", payload["application_id"]),
	)
	return nil
}

func (s *LoggingSink) AwardPoints(ctx context.Context, volunteerID string, amount int, reason string) error {
	s.log.Info(ctx, "award points",
		logger.String("volunteer", volunteerID),
		logger.Int("amount", amount),
		logger.String("reason", reason),
	)
	return nil
}

func (s *LoggingSink) IssueCertificate(ctx context.Context, volunteerID, opportunityID string) error {
	s.log.Info(ctx, "issue certificate",
		logger.String("volunteer", volunteerID),
		logger.String("opportunity", opportunityID),
	)
	return nil
}

func (s *LoggingSink) ReserveCapacity(ctx context.Context, opportunityID string) error {
	s.log.Info(ctx, "reserve capacity", logger.String("opportunity", opportunityID))
	return nil
}

func (s *LoggingSink) ReleaseCapacity(ctx context.Context, opportunityID string) error {
	s.log.Info(ctx, "release capacity", logger.String("opportunity", opportunityID))
	return nil
}

func (s *LoggingSink) RecordHours(ctx context.Context, volunteerID, opportunityID string) error {
	s.log.Info(ctx, "record hours",
		logger.String("volunteer", volunteerID),
		logger.String("opportunity", opportunityID),
	)
	return nil
}
