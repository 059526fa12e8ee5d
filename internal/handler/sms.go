package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/smsgoals/internal/service"
	"github.com/templui/smsgoals/internal/service/sms"
)

const maxWebhookBody = 64 << 10

type SMSHandler struct {
	messageService *service.MessageService
	verifier       sms.Verifier
}

func NewSMSHandler(messageService *service.MessageService, verifier sms.Verifier) *SMSHandler {
	return &SMSHandler{
		messageService: messageService,
		verifier:       verifier,
	}
}

// Reply receives inbound texts from the gateway. Signatures are checked
// against the raw body before anything is decoded.
func (h *SMSHandler) Reply(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	defer func() {
		closeErr := r.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close request body", "error", closeErr)
		}
	}()

	err = h.verifier.Verify(payload, r.Header)
	if err != nil {
		slog.Warn("webhook signature rejected", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	msg, err := decodeInbound(r.Header.Get("Content-Type"), payload)
	if err != nil {
		slog.Warn("malformed webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	_, err = h.messageService.HandleInbound(r.Context(), msg)
	if err != nil {
		slog.Error("failed to handle inbound sms", "error", err, "phone", msg.FromNumber)
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var errMissingSender = errors.New("fromNumber is required")

// decodeInbound accepts the gateway's JSON body and, for local testing with
// curl, a urlencoded form with the same field names.
func decodeInbound(contentType string, payload []byte) (sms.InboundMessage, error) {
	var msg sms.InboundMessage

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(payload))
		if err != nil {
			return msg, err
		}
		msg.FromNumber = values.Get("fromNumber")
		msg.Text = values.Get("text")
	} else {
		err := json.Unmarshal(payload, &msg)
		if err != nil {
			return msg, err
		}
	}

	if strings.TrimSpace(msg.FromNumber) == "" {
		return msg, errMissingSender
	}
	return msg, nil
}
