package bot

import (
	"context"
	"errors"
	"log"
	"strconv"

	"shop-telegram/models"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Customer-facing texts of the checkout progression.
const (
	textAskName       = "To'liq ismingizni kiriting.\n<i>masalan: Burxon Nurmurodov</i>"
	textAskPhone      = "Iltimos, telefon raqamingizni kiriting.\n<i>masalan: +998(98)765-43-21</i>"
	textAskLocation   = "Iltimos, joylashuvingizni ulashing."
	textBadName       = "Iltimos, to'liq ismingizni kiriting (kamida 2 ta belgi)."
	textBadPhone      = "Iltimos, telefon raqamingizni to'g'ri kiriting.\nMasalan: +998(98)765-43-21"
	textBadLocation   = "Joylashuv noto'g'ri. Iltimos, qaytadan ulashing."
	textOrderNotFound = "Buyurtma topilmadi."
	textOrderDone     = "🎉 Buyurtmangiz qabul qilindi! Tez orada operatorlarimiz siz bilan bog'lanadi. Rahmat! 🙏"
	textOrderCanceled = "❌ Buyurtmangiz bekor qilindi."
	textOrderBroken   = "Buyurtma ma'lumotlari yaroqsiz. Iltimos, qaytadan urinib ko'ring."
	textOrderEmpty    = "Buyurtmada sotuvdagi mahsulot qolmadi. Iltimos, qaytadan urinib ko'ring."
	textChannelFailed = "Buyurtmani operatorlarga yuborishda xatolik yuz berdi."
	textFatal         = "Kutilmagan xatolik yuz berdi. Iltimos, administratorga murojaat qiling."
	textGenericFail   = "Xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring."
)

// handleText advances the name or phone step of the user's incomplete
// order. Users with no incomplete order are ignored.
func (b *Bot) handleText(msg *tgbotapi.Message) {
	userID := msg.From.ID
	unlock := services.LockUser(userID)
	defer unlock()

	ctx := context.Background()
	o, err := services.GetIncompleteOrder(ctx, userID)
	if errors.Is(err, services.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("incomplete order for %d: %v", userID, err)
		return
	}

	switch services.StepFor(o) {
	case services.StepAwaitingName:
		name, err := services.ValidateName(msg.Text)
		if err != nil {
			b.SendHTML(msg.Chat.ID, textBadName)
			return
		}
		if err := services.SetOrderName(ctx, o.ID, name); err != nil {
			log.Printf("set name order %d: %v", o.ID, err)
			b.Send(msg.Chat.ID, textGenericFail)
			return
		}
		o.UserName = &name
	case services.StepAwaitingPhone:
		phone, err := services.ValidatePhone(msg.Text)
		if err != nil {
			b.SendHTML(msg.Chat.ID, textBadPhone)
			return
		}
		if err := services.SetOrderPhone(ctx, o.ID, phone); err != nil {
			log.Printf("set phone order %d: %v", o.ID, err)
			b.Send(msg.Chat.ID, textGenericFail)
			return
		}
		o.UserPhone = &phone
	}

	b.continueOrder(msg.Chat.ID, o)
}

// handleContact fills the phone step from a shared contact, accepted as-is.
func (b *Bot) handleContact(msg *tgbotapi.Message) {
	userID := msg.From.ID
	unlock := services.LockUser(userID)
	defer unlock()

	ctx := context.Background()
	o, err := services.GetIncompleteOrder(ctx, userID)
	if errors.Is(err, services.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("incomplete order for %d: %v", userID, err)
		return
	}
	if services.StepFor(o) != services.StepAwaitingPhone {
		return
	}

	phone := msg.Contact.PhoneNumber
	if err := services.SetOrderPhone(ctx, o.ID, phone); err != nil {
		log.Printf("set phone order %d: %v", o.ID, err)
		b.Send(msg.Chat.ID, textGenericFail)
		return
	}
	o.UserPhone = &phone
	b.continueOrder(msg.Chat.ID, o)
}

func (b *Bot) handleLocation(msg *tgbotapi.Message) {
	userID := msg.From.ID
	unlock := services.LockUser(userID)
	defer unlock()

	ctx := context.Background()
	o, err := services.GetIncompleteOrder(ctx, userID)
	if errors.Is(err, services.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("incomplete order for %d: %v", userID, err)
		return
	}
	if services.StepFor(o) != services.StepAwaitingLocation {
		return
	}

	loc, err := services.FormatLocation(msg.Location.Latitude, msg.Location.Longitude)
	if err != nil {
		b.Send(msg.Chat.ID, textBadLocation)
		b.askLocation(msg.Chat.ID)
		return
	}
	if err := services.SetOrderLocation(ctx, o.ID, loc); err != nil {
		log.Printf("set location order %d: %v", o.ID, err)
		b.Send(msg.Chat.ID, textGenericFail)
		return
	}
	o.Location = &loc
	b.continueOrder(msg.Chat.ID, o)
}

// continueOrder emits the prompt for whatever the order still misses, or
// the confirmation view once everything is set.
func (b *Bot) continueOrder(chatID int64, o *models.Order) {
	switch services.StepFor(o) {
	case services.StepAwaitingName:
		b.askName(chatID)
	case services.StepAwaitingPhone:
		b.askPhone(chatID)
	case services.StepAwaitingLocation:
		b.askLocation(chatID)
	case services.StepAwaitingConfirm:
		b.sendConfirmation(chatID, o)
	}
}

func (b *Bot) askName(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, textAskName)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) askPhone(chatID int64) {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("☎️ Kontaktni Ulashish"),
		),
	)
	kb.ResizeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, textAskPhone)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) askLocation(chatID int64) {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Joylashuvni Ulashish"),
		),
	)
	kb.ResizeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, textAskLocation)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

// sendConfirmation shows the collected details with a location marker and
// the change/confirm/cancel buttons.
func (b *Bot) sendConfirmation(chatID int64, o *models.Order) {
	lat, lon, err := services.ParseLocation(deref(o.Location))
	if err != nil {
		// Stored location unusable: clear it and re-ask instead of showing
		// a broken confirmation.
		log.Printf("order %d stored location: %v", o.ID, err)
		if err := services.ClearOrderLocation(context.Background(), o.ID); err != nil {
			log.Printf("clear location order %d: %v", o.ID, err)
		}
		b.askLocation(chatID)
		return
	}

	locMsg := tgbotapi.NewLocation(chatID, lat, lon)
	locMsg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	sent, err := b.api.Send(locMsg)
	if err != nil {
		log.Printf("send location: %v", err)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Ismni O'zgartirish", callbackData(services.ActionChangeName, o.ID)),
			tgbotapi.NewInlineKeyboardButtonData("☎️ Telefonni O'zgartirish", callbackData(services.ActionChangePhone, o.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Joylashuvni O'zgartirish", callbackData(services.ActionChangeLocation, o.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Tasdiqlash", callbackData(services.ActionConfirmOrder, o.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bekor Qilish", callbackData(services.ActionCancelOrder, o.ID)),
		),
	)
	text := "<b>Ma'lumotlaringizni tasdiqlang:</b>\n\n" +
		"👤 <b>Ism:</b> <code>" + deref(o.UserName) + "</code>\n" +
		"☎️ <b>Telefon:</b> <code>" + deref(o.UserPhone) + "</code>\n"
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if sent.MessageID != 0 {
		msg.ReplyToMessageID = sent.MessageID
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

// loadCallbackOrder clears the confirmation view and loads the referenced
// order under the user lock already held by the caller. A missing order is
// answered with "not found" so duplicate button presses stay harmless.
func (b *Bot) loadCallbackOrder(cq *tgbotapi.CallbackQuery, orderID int64) (*models.Order, bool) {
	if cq.Message == nil {
		return nil, false
	}
	chatID := cq.Message.Chat.ID
	if cq.Message.ReplyToMessage != nil {
		b.deleteMessage(chatID, cq.Message.ReplyToMessage.MessageID)
	}
	b.deleteMessage(chatID, cq.Message.MessageID)

	o, err := services.GetOrder(context.Background(), orderID)
	if errors.Is(err, services.ErrNotFound) {
		b.Send(chatID, textOrderNotFound)
		return nil, false
	}
	if err != nil {
		log.Printf("get order %d: %v", orderID, err)
		b.Send(chatID, textGenericFail)
		return nil, false
	}
	return o, true
}

func (b *Bot) handleChangeName(cq *tgbotapi.CallbackQuery, orderID int64) {
	unlock := services.LockUser(cq.From.ID)
	defer unlock()
	o, ok := b.loadCallbackOrder(cq, orderID)
	if !ok {
		return
	}
	if err := services.ClearOrderName(context.Background(), o.ID); err != nil {
		log.Printf("clear name order %d: %v", o.ID, err)
		b.Send(cq.Message.Chat.ID, textGenericFail)
		return
	}
	b.askName(cq.Message.Chat.ID)
}

func (b *Bot) handleChangePhone(cq *tgbotapi.CallbackQuery, orderID int64) {
	unlock := services.LockUser(cq.From.ID)
	defer unlock()
	o, ok := b.loadCallbackOrder(cq, orderID)
	if !ok {
		return
	}
	if err := services.ClearOrderPhone(context.Background(), o.ID); err != nil {
		log.Printf("clear phone order %d: %v", o.ID, err)
		b.Send(cq.Message.Chat.ID, textGenericFail)
		return
	}
	b.askPhone(cq.Message.Chat.ID)
}

func (b *Bot) handleChangeLocation(cq *tgbotapi.CallbackQuery, orderID int64) {
	unlock := services.LockUser(cq.From.ID)
	defer unlock()
	o, ok := b.loadCallbackOrder(cq, orderID)
	if !ok {
		return
	}
	if err := services.ClearOrderLocation(context.Background(), o.ID); err != nil {
		log.Printf("clear location order %d: %v", o.ID, err)
		b.Send(cq.Message.Chat.ID, textGenericFail)
		return
	}
	b.askLocation(cq.Message.Chat.ID)
}

func (b *Bot) handleConfirmOrder(cq *tgbotapi.CallbackQuery, orderID int64) {
	unlock := services.LockUser(cq.From.ID)
	defer unlock()
	o, ok := b.loadCallbackOrder(cq, orderID)
	if !ok {
		return
	}
	chatID := cq.Message.Chat.ID
	if services.StepFor(o) != services.StepAwaitingConfirm {
		// A field was cleared since the view was shown; resume collection.
		b.continueOrder(chatID, o)
		return
	}
	b.finalizeOrder(context.Background(), chatID, o)
}

func (b *Bot) handleCancelOrder(cq *tgbotapi.CallbackQuery, orderID int64) {
	unlock := services.LockUser(cq.From.ID)
	defer unlock()
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	if cq.Message.ReplyToMessage != nil {
		b.deleteMessage(chatID, cq.Message.ReplyToMessage.MessageID)
	}
	b.deleteMessage(chatID, cq.Message.MessageID)

	deleted, err := services.DeleteOrder(context.Background(), orderID)
	if err != nil {
		log.Printf("cancel order %d: %v", orderID, err)
		b.Send(chatID, textGenericFail)
		return
	}
	if !deleted {
		b.Send(chatID, textOrderNotFound)
		return
	}
	b.Send(chatID, textOrderCanceled)
}

// finalizeOrder prices the order, posts the staff channel notification and
// closes the order out. Channel delivery failure is reported but does not
// keep the order alive; only a failing delete is fatal.
func (b *Bot) finalizeOrder(ctx context.Context, chatID int64, o *models.Order) {
	sum, err := services.SummarizeOrder(o, services.CatalogLookup(ctx))
	switch {
	case errors.Is(err, services.ErrMalformedOrder):
		b.Send(chatID, textOrderBroken)
		return
	case errors.Is(err, services.ErrEmptyOrder):
		b.Send(chatID, textOrderEmpty)
		return
	case err != nil:
		log.Printf("summarize order %d: %v", o.ID, err)
		b.Send(chatID, textGenericFail)
		return
	}

	delivered := true
	channelMsg := tgbotapi.NewMessage(b.cfg.Telegram.ChannelID, sum.ChannelText())
	channelMsg.ParseMode = tgbotapi.ModeHTML
	sent, err := b.api.Send(channelMsg)
	if err != nil {
		log.Printf("channel notify order %d: %v", o.ID, err)
		delivered = false
	} else if lat, lon, perr := services.ParseLocation(deref(o.Location)); perr == nil {
		marker := tgbotapi.NewLocation(b.cfg.Telegram.ChannelID, lat, lon)
		marker.ReplyToMessageID = sent.MessageID
		if _, err := b.api.Send(marker); err != nil {
			log.Printf("channel location order %d: %v", o.ID, err)
		}
	}

	if _, err := services.DeleteOrder(ctx, o.ID); err != nil {
		log.Printf("delete order %d after finalize: %v", o.ID, err)
		b.Send(chatID, textFatal)
		return
	}
	if !delivered {
		b.Send(chatID, textChannelFailed)
	}
	b.Send(chatID, textOrderDone)
}

func callbackData(action services.CallbackAction, orderID int64) string {
	return string(action) + "_" + strconv.FormatInt(orderID, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
