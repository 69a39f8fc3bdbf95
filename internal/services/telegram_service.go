package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// TelegramService pushes stage-change notifications to a team chat. All
// methods are nil-safe so callers can wire it unconditionally.
type TelegramService struct {
	token   string
	chatID  int64
	baseURL string
	client  *http.Client
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	return &TelegramService{
		token:   botToken,
		chatID:  chatID,
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", botToken),
		client:  &http.Client{},
	}
}

type tgResp struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// NotifyStageChange is fire-and-forget: a delivery failure is logged and
// never fails the operation that triggered it.
func (t *TelegramService) NotifyStageChange(entity, name string, stageID int) {
	text := fmt.Sprintf("%s <b>%s</b> moved to stage #%d", entity, name, stageID)
	if err := t.SendMessage(text); err != nil {
		log.Printf("[tg] notify failed: %v", err)
	}
}

func (t *TelegramService) SendMessage(text string) error {
	if t == nil || t.token == "" || t.chatID == 0 {
		return nil
	}
	body := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", t.baseURL+"/sendMessage", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var api tgResp
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != 200 || !api.Ok {
		return fmt.Errorf("telegram sendMessage failed: status=%d ok=%v desc=%s", resp.StatusCode, api.Ok, api.Description)
	}
	return nil
}
