package notifications

import "github.com/sentimentlab/topic-pulse/internal/models"

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendRunReport(report *models.RunReport) error
}
