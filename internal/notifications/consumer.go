package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/outbox/idempotency"
	"github.com/agkmart/agkmart-backend/pkg/sms"
)

const deliveryNotificationConsumer = "delivery-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and fans them out as customer and pilot
// notifications. Every attempted send leaves a row behind, so support can
// see what a customer was (or was not) told.
type Consumer struct {
	repo         repository
	sender       sms.Sender
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the delivery notification consumer.
func NewConsumer(repo repository, sender sms.Sender, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if sender == nil {
		return nil, fmt.Errorf("sms sender required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		sender:       sender,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if !eventType.IsValid() {
		c.logg.Info(logCtx, "skipping unknown event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, deliveryNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handle(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, deliveryNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handle(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventOrderAccepted:
		return c.handleOrderAccepted(ctx, data, logCtx)
	case enums.EventJourneyStarted:
		return c.handleJourneyStarted(ctx, data, logCtx)
	case enums.EventOrderDelivered:
		return c.handleOrderDelivered(ctx, data, logCtx)
	case enums.EventOrderCancelled:
		return c.handleOrderCancelled(ctx, data, logCtx)
	case enums.EventPilotApproved, enums.EventPilotRejected:
		return c.handlePilotDecision(ctx, eventType, data, logCtx)
	case enums.EventTicketStatusChanged:
		return c.handleTicketStatusChanged(ctx, data, logCtx)
	default:
		c.logg.Info(logCtx, "event not handled")
		return nil
	}
}

// orderAcceptedPayload mirrors the accept event queued by the delivery
// service. The handover OTP travels only here and in the customer SMS,
// never in an API response to the pilot.
type orderAcceptedPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	PilotID       uuid.UUID `json:"pilot_id"`
	PilotName     string    `json:"pilot_name"`
	PilotPhone    string    `json:"pilot_phone"`
	CustomerPhone string    `json:"customer_phone"`
	SupplierPhone string    `json:"supplier_phone"`
	DeliveryOTP   string    `json:"delivery_otp"`
}

func (c *Consumer) handleOrderAccepted(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload orderAcceptedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order_accepted payload: %w", err)
	}
	if payload.CustomerPhone == "" {
		return fmt.Errorf("customer phone missing for order %s", payload.OrderCode)
	}

	body := fmt.Sprintf(
		"Your order %s has been picked up by %s (%s). Share OTP %s with the pilot at handover.",
		payload.OrderCode, payload.PilotName, payload.PilotPhone, payload.DeliveryOTP,
	)
	if err := c.sendSMS(ctx, enums.NotificationRecipientCustomer, nil, payload.CustomerPhone,
		enums.EventOrderAccepted, "Order on the way", body); err != nil {
		return err
	}

	if payload.SupplierPhone != "" {
		supplierBody := fmt.Sprintf("Pilot %s is heading to you for order %s.", payload.PilotName, payload.OrderCode)
		if err := c.sendSMS(ctx, enums.NotificationRecipientSupplier, nil, payload.SupplierPhone,
			enums.EventOrderAccepted, "Pickup incoming", supplierBody); err != nil {
			return err
		}
	}

	c.logg.Info(c.logg.WithOrderCode(logCtx, payload.OrderCode), "accept notifications dispatched")
	return nil
}

type journeyStartedPayload struct {
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
	PilotID   uuid.UUID `json:"pilot_id"`
}

func (c *Consumer) handleJourneyStarted(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload journeyStartedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse journey_started payload: %w", err)
	}

	notification := &models.Notification{
		RecipientID:   &payload.PilotID,
		RecipientRole: enums.NotificationRecipientPilot,
		Channel:       enums.NotificationChannelInApp,
		EventType:     string(enums.EventJourneyStarted),
		Title:         "Journey started",
		Body:          fmt.Sprintf("Order %s is in transit. Drive safe.", payload.OrderCode),
		Sent:          true,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(c.logg.WithOrderCode(logCtx, payload.OrderCode), "journey notification stored")
	return nil
}

type orderDeliveredPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	PilotID       uuid.UUID `json:"pilot_id"`
	CustomerPhone string    `json:"customer_phone"`
}

func (c *Consumer) handleOrderDelivered(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload orderDeliveredPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order_delivered payload: %w", err)
	}
	if payload.CustomerPhone == "" {
		return fmt.Errorf("customer phone missing for order %s", payload.OrderCode)
	}

	body := fmt.Sprintf("Order %s has been delivered. Thanks for building with us.", payload.OrderCode)
	if err := c.sendSMS(ctx, enums.NotificationRecipientCustomer, nil, payload.CustomerPhone,
		enums.EventOrderDelivered, "Order delivered", body); err != nil {
		return err
	}
	c.logg.Info(c.logg.WithOrderCode(logCtx, payload.OrderCode), "delivery notification dispatched")
	return nil
}

type orderCancelledPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderCode     string    `json:"order_code"`
	CustomerPhone string    `json:"customer_phone"`
	SupplierPhone string    `json:"supplier_phone"`
}

func (c *Consumer) handleOrderCancelled(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload orderCancelledPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order_cancelled payload: %w", err)
	}

	body := fmt.Sprintf("Order %s has been cancelled. Support will reach out if a refund is due.", payload.OrderCode)
	if payload.CustomerPhone != "" {
		if err := c.sendSMS(ctx, enums.NotificationRecipientCustomer, nil, payload.CustomerPhone,
			enums.EventOrderCancelled, "Order cancelled", body); err != nil {
			return err
		}
	}
	if payload.SupplierPhone != "" {
		if err := c.sendSMS(ctx, enums.NotificationRecipientSupplier, nil, payload.SupplierPhone,
			enums.EventOrderCancelled, "Order cancelled", fmt.Sprintf("Order %s was cancelled, no pickup needed.", payload.OrderCode)); err != nil {
			return err
		}
	}
	c.logg.Info(c.logg.WithOrderCode(logCtx, payload.OrderCode), "cancellation notifications dispatched")
	return nil
}

type pilotDecisionPayload struct {
	PilotID     uuid.UUID `json:"pilot_id"`
	PilotNumber string    `json:"pilot_number"`
	Phone       string    `json:"phone"`
	Reason      *string   `json:"reason,omitempty"`
}

func (c *Consumer) handlePilotDecision(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	var payload pilotDecisionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse pilot decision payload: %w", err)
	}
	if payload.Phone == "" {
		return fmt.Errorf("phone missing for pilot %s", payload.PilotNumber)
	}

	title := "Application approved"
	body := fmt.Sprintf("Welcome aboard! Your pilot account %s is approved. Log in to start accepting deliveries.", payload.PilotNumber)
	if eventType == enums.EventPilotRejected {
		title = "Application update"
		body = "Your pilot application was not approved."
		if payload.Reason != nil && *payload.Reason != "" {
			body = fmt.Sprintf("Your pilot application was not approved: %s", *payload.Reason)
		}
	}

	if err := c.sendSMS(ctx, enums.NotificationRecipientPilot, &payload.PilotID, payload.Phone, eventType, title, body); err != nil {
		return err
	}
	c.logg.Info(c.logg.WithPilotID(logCtx, payload.PilotNumber), "pilot decision notification dispatched")
	return nil
}

type ticketStatusChangedPayload struct {
	TicketID     uuid.UUID          `json:"ticket_id"`
	TicketNumber string             `json:"ticket_number"`
	NewStatus    enums.TicketStatus `json:"new_status"`
}

func (c *Consumer) handleTicketStatusChanged(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload ticketStatusChangedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse ticket_status_changed payload: %w", err)
	}

	notification := &models.Notification{
		RecipientRole: enums.NotificationRecipientAdmin,
		Channel:       enums.NotificationChannelInApp,
		EventType:     string(enums.EventTicketStatusChanged),
		Title:         "Ticket updated",
		Body:          fmt.Sprintf("Ticket %s moved to %s.", payload.TicketNumber, payload.NewStatus),
		Sent:          true,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "ticket status notification stored")
	return nil
}

// sendSMS dispatches and records the attempt. A failed send is persisted
// with the error but does not fail the handler; the row is the retry queue
// for support, not the broker.
func (c *Consumer) sendSMS(ctx context.Context, role enums.NotificationRecipient, recipientID *uuid.UUID, phone string, eventType enums.OutboxEventType, title, body string) error {
	notification := &models.Notification{
		RecipientID:   recipientID,
		RecipientRole: role,
		Channel:       enums.NotificationChannelSMS,
		Phone:         &phone,
		EventType:     string(eventType),
		Title:         title,
		Body:          body,
	}

	if err := c.sender.Send(ctx, phone, body); err != nil {
		msg := err.Error()
		notification.SendErr = &msg
		c.logg.Error(ctx, "sms dispatch failed", err)
	} else {
		notification.Sent = true
	}

	return c.repo.Create(ctx, notification)
}
