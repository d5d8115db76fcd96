package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramDispatcher sends messages through the Telegram Bot API.
// Requests are rate limited to stay under the Bot API's global ceiling of
// 30 messages per second.
type TelegramDispatcher struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewTelegramDispatcher(token string) *TelegramDispatcher {
	return &TelegramDispatcher{
		token:   token,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

type inlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type sendMessageRequest struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ParseMode   string `json:"parse_mode"`
	ReplyMarkup *struct {
		InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
	} `json:"reply_markup,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (d *TelegramDispatcher) Send(ctx context.Context, chatID int64, text string, markup *ReplyMarkup) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	req := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}
	if markup != nil {
		keyboard := make([][]inlineKeyboardButton, 0, len(markup.Buttons))
		for _, row := range markup.Buttons {
			buttons := make([]inlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, inlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
			}
			keyboard = append(keyboard, buttons)
		}
		req.ReplyMarkup = &struct {
			InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
		}{InlineKeyboard: keyboard}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", d.baseURL, d.token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("sendMessage rejected: %d %s", result.ErrorCode, result.Description)
	}
	return nil
}
