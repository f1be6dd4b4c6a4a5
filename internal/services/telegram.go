package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/lotus/internal/models"
)

// TelegramService notifies the shop operator about new orders. It is a
// no-op when the bot token or chat ID is not configured.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyNewOrder sends the new-order summary to the admin chat. Failures
// are logged by the caller and never fail the checkout.
func (s *TelegramService) NotifyNewOrder(order *models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		lineTotal := item.UnitPrice * int64(item.Quantity)
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			item.Name,
			item.Quantity,
			FormatVND(item.UnitPrice),
			FormatVND(lineTotal),
		))
	}

	paymentText := "COD"
	if order.PaymentMethod == models.PaymentMethodBank {
		paymentText = "Chuyển khoản"
	}

	promoLine := ""
	if order.PromoAmount > 0 {
		promoLine = fmt.Sprintf("\n<b>🎟 Giảm giá (%s):</b> -%s", order.PromoCode, FormatVND(order.PromoAmount))
	}

	message := fmt.Sprintf(`<b>🛒 ĐƠN HÀNG MỚI!</b>
<b>📋 Mã đơn:</b> %s
<b>👤 Khách hàng:</b> %s
<b>📞 Điện thoại:</b> %s
<b>📍 Địa chỉ:</b> %s, %s, %s, %s
<b>📦 Sản phẩm:</b>
%s<b>🚚 Phí ship:</b> %s%s
<b>💰 Tổng cộng:</b> %s
<b>💳 Thanh toán:</b> %s`,
		order.OrderCode,
		order.FullName,
		order.Phone,
		order.AddressDetail, order.Ward, order.District, order.Province,
		itemsList.String(),
		FormatShippingFee(order.ShippingFee),
		promoLine,
		FormatVND(order.Total),
		paymentText,
	)

	return s.SendMessage(s.adminChatID, strings.TrimSpace(message))
}
