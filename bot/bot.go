package bot

import (
	"context"
	"log"

	"shop-telegram/config"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type messageHandler func(msg *tgbotapi.Message)
type callbackHandler func(cq *tgbotapi.CallbackQuery, orderID int64)

type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	// Routing tables are built once at construction; updates are dispatched
	// by content type and callback action, nothing is registered globally.
	onContent  map[string]messageHandler
	onCommand  map[string]messageHandler
	onCallback map[services.CallbackAction]callbackHandler
}

func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := &Bot{api: api, cfg: cfg}
	b.onContent = map[string]messageHandler{
		"text":     b.handleText,
		"contact":  b.handleContact,
		"location": b.handleLocation,
	}
	b.onCommand = map[string]messageHandler{
		"start":     b.handleStart,
		"broadcast": b.handleBroadcastCopy,
		"forward":   b.handleBroadcastForward,
	}
	b.onCallback = map[services.CallbackAction]callbackHandler{
		services.ActionChangeName:     b.handleChangeName,
		services.ActionChangePhone:    b.handleChangePhone,
		services.ActionChangeLocation: b.handleChangeLocation,
		services.ActionConfirmOrder:   b.handleConfirmOrder,
		services.ActionCancelOrder:    b.handleCancelOrder,
	}
	return b, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	// One failing event must never take the loop down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("update %d panic: %v", update.UpdateID, r)
		}
	}()

	ctx := context.Background()

	if cq := update.CallbackQuery; cq != nil {
		if err := services.TouchUser(ctx, cq.From.ID); err != nil {
			log.Printf("touch user %d: %v", cq.From.ID, err)
		}
		b.handleCallback(cq)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if err := services.TouchUser(ctx, msg.From.ID); err != nil {
		log.Printf("touch user %d: %v", msg.From.ID, err)
	}

	if msg.IsCommand() {
		if h, ok := b.onCommand[msg.Command()]; ok {
			h(msg)
		}
		return
	}

	// An armed admin claims the next content message of any type.
	if b.maybeBroadcast(msg) {
		return
	}

	if h, ok := b.onContent[contentTypeOf(msg)]; ok {
		h(msg)
	}
}

func contentTypeOf(msg *tgbotapi.Message) string {
	switch {
	case msg.Contact != nil:
		return "contact"
	case msg.Location != nil:
		return "location"
	case msg.Text != "":
		return "text"
	default:
		return ""
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))

	// Malformed callback data (unknown action or bad order id suffix) is
	// ignored, never an error.
	action, orderID, ok := services.ParseCallback(cq.Data)
	if !ok {
		return
	}
	if h, hit := b.onCallback[action]; hit {
		h(cq, orderID)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "Veb Ilovani Ochish",
				WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.Telegram.WebAppURL + "/menu/"},
			},
		),
	)
	out := tgbotapi.NewMessage(msg.Chat.ID, "Botga xush kelibsiz!")
	out.ReplyMarkup = kb
	if _, err := b.api.Send(out); err != nil {
		log.Printf("send error: %v", err)
	}
}

// Send delivers a plain text message; transport failures are logged, never
// propagated.
func (b *Bot) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send error: %v", err)
	}
	return err
}

// SendHTML delivers an HTML-formatted message.
func (b *Bot) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send error: %v", err)
	}
	return err
}

// SendShopButton delivers text with an inline button back into the web app.
func (b *Bot) SendShopButton(chatID int64, text string) error {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "🛍️ Do'kon",
				WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.Telegram.WebAppURL + "/menu"},
			},
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send error: %v", err)
	}
	return err
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("delete message %d: %v", messageID, err)
	}
}
