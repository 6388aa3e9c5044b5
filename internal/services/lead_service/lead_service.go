package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"chalu_psychology/internal/config"
	"chalu_psychology/internal/lib/logger/sl"
	"chalu_psychology/internal/metrics"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const telegramAPIBase = "https://api.telegram.org"

var (
	ErrMissingLeadFields = errors.New("name, contact and message are required")
	ErrDuplicateLead     = errors.New("duplicate submission")
	ErrRelayFailed       = errors.New("message relay failed")
)

// LeadService forwards contact form submissions to the practice's
// Telegram chat. Fire and forget: one attempt, no retry, no delivery
// confirmation beyond the API acknowledgement. A short-lived cache drops
// repeated identical submissions so a double-clicked form does not spam
// the chat.
type LeadService struct {
	log     *slog.Logger
	http    *http.Client
	apiBase string
	token   string
	chatID  string
	dedupe  *cache.Cache
}

func NewLeadService(log *slog.Logger, cfg config.TelegramConfig) *LeadService {
	return &LeadService{
		log:     log,
		http:    &http.Client{Timeout: cfg.Timeout},
		apiBase: telegramAPIBase,
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		dedupe:  cache.New(cfg.DedupeTTL, 2*cfg.DedupeTTL),
	}
}

// SubmitLead relays one submission and returns a reference id the caller
// can show the visitor.
func (s *LeadService) SubmitLead(ctx context.Context, name, contact, message string) (string, error) {
	const op = "lead_service.SubmitLead"
	log := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)
	message = strings.TrimSpace(message)
	if name == "" || contact == "" || message == "" {
		return "", ErrMissingLeadFields
	}

	dedupeKey := contact + "\n" + message
	if _, found := s.dedupe.Get(dedupeKey); found {
		log.Warn("duplicate submission dropped", slog.String("contact", contact))
		metrics.LeadsRelayedTotal.WithLabelValues("duplicate").Inc()
		return "", ErrDuplicateLead
	}

	text := fmt.Sprintf("New inquiry\nName: %s\nContact: %s\n\n%s", name, contact, message)
	if err := s.sendMessage(ctx, text); err != nil {
		log.Error("relay failed", sl.Err(err))
		metrics.LeadsRelayedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.dedupe.SetDefault(dedupeKey, struct{}{})
	metrics.LeadsRelayedTotal.WithLabelValues("ok").Inc()

	ref := uuid.NewString()
	log.Info("lead relayed", slog.String("ref", ref))
	return ref, nil
}

func (s *LeadService) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": s.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	defer resp.Body.Close()

	var ack struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("%w: decode acknowledgement: %v", ErrRelayFailed, err)
	}
	if !ack.OK {
		return ErrRelayFailed
	}

	return nil
}
