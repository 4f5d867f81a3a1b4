package enums

import "fmt"

// NotificationRecipient identifies which party a notification targets.
type NotificationRecipient string

const (
	NotificationRecipientCustomer NotificationRecipient = "customer"
	NotificationRecipientSupplier NotificationRecipient = "supplier"
	NotificationRecipientPilot    NotificationRecipient = "pilot"
	NotificationRecipientAdmin    NotificationRecipient = "admin"
)

var validNotificationRecipients = []NotificationRecipient{
	NotificationRecipientCustomer,
	NotificationRecipientSupplier,
	NotificationRecipientPilot,
	NotificationRecipientAdmin,
}

// IsValid reports whether the value is a known NotificationRecipient.
func (n NotificationRecipient) IsValid() bool {
	for _, candidate := range validNotificationRecipients {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationRecipient converts raw input into a NotificationRecipient.
func ParseNotificationRecipient(value string) (NotificationRecipient, error) {
	for _, candidate := range validNotificationRecipients {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification recipient %q", value)
}

// NotificationChannel is the transport a notification was dispatched on.
type NotificationChannel string

const (
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelInApp NotificationChannel = "in_app"
)

// IsValid reports whether the value is a known NotificationChannel.
func (n NotificationChannel) IsValid() bool {
	return n == NotificationChannelSMS || n == NotificationChannelInApp
}
