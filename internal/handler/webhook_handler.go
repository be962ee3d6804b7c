package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"tripdesk/internal/render"
	"tripdesk/internal/service"
)

// clearCommand wipes the sender's ledger when received as a text message.
const clearCommand = "!清空"

// loadingSeconds is how long the LINE typing indicator stays up while the
// pipeline runs.
const loadingSeconds = 30

// WebhookHandler receives LINE webhook callbacks and drives the ingest and
// chat services.
type WebhookHandler struct {
	channelSecret string
	bot           *messaging_api.MessagingApiAPI
	blob          *messaging_api.MessagingApiBlobAPI
	ingest        service.IngestService
	chat          service.ChatService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	channelSecret string,
	bot *messaging_api.MessagingApiAPI,
	blob *messaging_api.MessagingApiBlobAPI,
	ingest service.IngestService,
	chat service.ChatService,
) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		bot:           bot,
		blob:          blob,
		ingest:        ingest,
		chat:          chat,
	}
}

// Callback handles POST /callback
func (h *WebhookHandler) Callback(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		log.Printf("WebhookHandler.Callback: parse failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	for _, event := range cb.Events {
		msgEvent, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		h.handleMessage(c.Request.Context(), msgEvent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) handleMessage(ctx context.Context, event webhook.MessageEvent) {
	source, ok := event.Source.(webhook.UserSource)
	if !ok {
		return
	}
	userID := source.UserId

	switch message := event.Message.(type) {
	case webhook.TextMessageContent:
		h.handleText(ctx, userID, event.ReplyToken, message)
	case webhook.ImageMessageContent:
		h.handleImage(ctx, userID, event.ReplyToken, message)
	}
}

func (h *WebhookHandler) handleText(ctx context.Context, userID, replyToken string, message webhook.TextMessageContent) {
	text := strings.TrimSpace(message.Text)

	if text == clearCommand {
		if err := h.chat.Clear(ctx, userID); err != nil {
			log.Printf("WebhookHandler.handleText: clear failed for %s: %v", userID, err)
			h.reply(replyToken, &messaging_api.TextMessage{Text: render.MsgProcessingFailed})
			return
		}
		h.reply(replyToken, &messaging_api.TextMessage{Text: render.MsgCleared})
		return
	}

	h.showLoading(userID)
	answer, err := h.chat.Answer(ctx, userID, text)
	if err != nil {
		log.Printf("WebhookHandler.handleText: answer failed for %s: %v", userID, err)
		h.reply(replyToken, &messaging_api.TextMessage{Text: render.MsgProcessingFailed})
		return
	}
	h.reply(replyToken, &messaging_api.TextMessage{Text: answer})
}

func (h *WebhookHandler) handleImage(ctx context.Context, userID, replyToken string, message webhook.ImageMessageContent) {
	h.showLoading(userID)

	image, contentType, err := h.fetchImage(message.Id)
	if err != nil {
		log.Printf("WebhookHandler.handleImage: fetching content %s failed: %v", message.Id, err)
		h.reply(replyToken, &messaging_api.TextMessage{Text: render.MsgProcessingFailed})
		return
	}

	result, err := h.ingest.IngestImage(ctx, userID, message.Id, image, contentType)
	if err != nil {
		h.reply(replyToken, &messaging_api.TextMessage{Text: render.MessageFor(err)})
		return
	}

	var messages []messaging_api.MessageInterface
	if result.Status == service.StatusDuplicate {
		messages = append(messages, &messaging_api.TextMessage{Text: render.MsgDuplicate})
	}
	messages = append(messages,
		render.BuildRecordFlex(result.Pair.Original),
		render.BuildRecordFlex(result.Pair.Translated),
	)
	h.reply(replyToken, messages...)
}

// fetchImage downloads message content through a temp file so a large image
// never has to fit in the response body buffer. The file is removed on every
// path.
func (h *WebhookHandler) fetchImage(messageID string) ([]byte, string, error) {
	resp, err := h.blob.GetMessageContent(messageID)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp("", "tripdesk-image-*")
	if err != nil {
		return nil, "", err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, "", err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}
	image, err := io.ReadAll(tmp)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return image, contentType, nil
}

func (h *WebhookHandler) showLoading(userID string) {
	_, err := h.bot.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         userID,
		LoadingSeconds: loadingSeconds,
	})
	if err != nil {
		log.Printf("WebhookHandler.showLoading: %v", err)
	}
}

func (h *WebhookHandler) reply(replyToken string, messages ...messaging_api.MessageInterface) {
	_, err := h.bot.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		log.Printf("WebhookHandler.reply: %v", err)
	}
}
