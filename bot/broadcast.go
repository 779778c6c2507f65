package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"shop-telegram/models"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BroadcastCancelLabel is matched literally against the armed admin's next
// text message; it aborts the broadcast before any delivery.
const BroadcastCancelLabel = "❌ Bekor qilish"

const (
	textBroadcastArmed    = "Yubormoqchi bo'lgan xabaringizni jo'nating."
	textBroadcastCanceled = "Yuborish bekor qilindi."
	textBroadcastDenied   = "Bu buyruq faqat adminlar uchun."
)

func (b *Bot) handleBroadcastCopy(msg *tgbotapi.Message) {
	b.armBroadcast(msg, models.BroadcastCopy)
}

func (b *Bot) handleBroadcastForward(msg *tgbotapi.Message) {
	b.armBroadcast(msg, models.BroadcastForward)
}

// armBroadcast sets the admin's broadcasting mode; the next content
// message is the broadcast, a cancel label aborts.
func (b *Bot) armBroadcast(msg *tgbotapi.Message, mode string) {
	ctx := context.Background()
	userID := msg.From.ID

	role := services.RoleFor(ctx, userID, b.cfg.Telegram.SAdmin)
	if role != models.RoleAdmin && role != models.RoleSAdmin {
		b.Send(msg.Chat.ID, textBroadcastDenied)
		return
	}
	// The super admin may have no admins row yet; the flag lives there.
	if err := services.EnsureAdmin(ctx, userID, role); err != nil {
		log.Printf("ensure admin %d: %v", userID, err)
		b.Send(msg.Chat.ID, textGenericFail)
		return
	}
	if err := services.SetBroadcasting(ctx, userID, mode); err != nil {
		log.Printf("arm broadcast for %d: %v", userID, err)
		b.Send(msg.Chat.ID, textGenericFail)
		return
	}

	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BroadcastCancelLabel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	out := tgbotapi.NewMessage(msg.Chat.ID, textBroadcastArmed)
	out.ReplyMarkup = kb
	if _, err := b.api.Send(out); err != nil {
		log.Printf("send error: %v", err)
	}
}

// maybeBroadcast claims an armed admin's next message as broadcast content.
// The mode is cleared atomically before any delivery, so a second message
// without re-arming is never re-broadcast. Returns false when the sender
// was not mid-broadcast.
func (b *Bot) maybeBroadcast(msg *tgbotapi.Message) bool {
	ctx := context.Background()
	userID := msg.From.ID

	mode, err := services.TakeBroadcasting(ctx, userID)
	if err != nil {
		log.Printf("take broadcasting for %d: %v", userID, err)
		return false
	}
	if mode == models.BroadcastNone {
		return false
	}

	if strings.TrimSpace(msg.Text) == BroadcastCancelLabel {
		out := tgbotapi.NewMessage(msg.Chat.ID, textBroadcastCanceled)
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		if _, err := b.api.Send(out); err != nil {
			log.Printf("send error: %v", err)
		}
		return true
	}

	users, err := services.ListActiveUsers(ctx)
	if err != nil {
		log.Printf("broadcast recipients: %v", err)
		b.Send(msg.Chat.ID, textGenericFail)
		return true
	}
	recipients := services.RecipientIDs(users)

	send := b.copySender(msg)
	if mode == models.BroadcastForward {
		send = b.forwardSender(msg)
	}

	// The fan-out blocks on one network call per recipient; run it off the
	// update loop and report the tally when done.
	adminChatID := msg.Chat.ID
	go func() {
		success, failed := services.Dispatch(recipients, services.DefaultBroadcastConcurrency, send)
		report := fmt.Sprintf("Yuborildi: %d\nXatolik: %d\nJami: %d", success, failed, len(recipients))
		out := tgbotapi.NewMessage(adminChatID, report)
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		if _, err := b.api.Send(out); err != nil {
			log.Printf("send error: %v", err)
		}
	}()
	return true
}

// copySender replicates the message contents without sender attribution.
func (b *Bot) copySender(msg *tgbotapi.Message) func(chatID int64) error {
	fromChatID := msg.Chat.ID
	messageID := msg.MessageID
	return func(chatID int64) error {
		_, err := b.api.CopyMessage(tgbotapi.NewCopyMessage(chatID, fromChatID, messageID))
		return err
	}
}

// forwardSender replicates the message with original-sender attribution.
func (b *Bot) forwardSender(msg *tgbotapi.Message) func(chatID int64) error {
	fromChatID := msg.Chat.ID
	messageID := msg.MessageID
	return func(chatID int64) error {
		_, err := b.api.Send(tgbotapi.NewForward(chatID, fromChatID, messageID))
		return err
	}
}
