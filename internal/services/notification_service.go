package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/linguahub/crm-service/internal/events"
)

// NotificationSender delivers a formatted notification to the staff channel.
type NotificationSender interface {
	Send(text string) error
}

// TelegramSender posts notifications to a Telegram chat.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(botToken string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSender) Send(text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text))
	return err
}

// NotificationDispatcher consumes domain events off the bus and forwards the
// interesting ones to staff. Delivery is best-effort: a failed send is logged
// and the event is acked anyway so the bus never backs up behind Telegram.
type NotificationDispatcher struct {
	subscriber message.Subscriber
	sender     NotificationSender
	logger     *slog.Logger
}

func NewNotificationDispatcher(subscriber message.Subscriber, sender NotificationSender, logger *slog.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		subscriber: subscriber,
		sender:     sender,
		logger:     logger,
	}
}

// Start subscribes to the event topic and dispatches until ctx is cancelled.
func (d *NotificationDispatcher) Start(ctx context.Context) error {
	messages, err := d.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.Topic, err)
	}

	go func() {
		for msg := range messages {
			d.handle(msg)
			msg.Ack()
		}
	}()

	d.logger.Info("notification dispatcher started", "topic", events.Topic)
	return nil
}

func (d *NotificationDispatcher) handle(msg *message.Message) {
	var event events.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		d.logger.Error("failed to decode event", "message_id", msg.UUID, "error", err)
		return
	}

	text := FormatNotification(event)
	if text == "" {
		return
	}

	if err := d.sender.Send(text); err != nil {
		d.logger.Error("failed to send notification", "type", event.Type, "error", err)
	}
}

// FormatNotification renders the staff-facing text for an event; unknown
// event types produce an empty string and are skipped.
func FormatNotification(event events.Event) string {
	data, _ := event.Data.(map[string]interface{})

	switch event.Type {
	case events.TypeLeadCreated:
		return fmt.Sprintf("New lead: %s (%s), course %s",
			strField(data, "name"), strField(data, "phone"), strField(data, "course"))
	case events.TypeLeadConverted:
		return fmt.Sprintf("Lead converted: %s is now a student", strField(data, "name"))
	case events.TypePaymentReceived:
		return fmt.Sprintf("Payment received: %.2f from student %v",
			numField(data, "amount"), data["student_id"])
	default:
		return ""
	}
}

func strField(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return "?"
}

func numField(data map[string]interface{}, key string) float64 {
	if f, ok := data[key].(float64); ok {
		return f
	}
	return 0
}
