package push

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
)

// BatchResult counts per-device outcomes of one provider call.
type BatchResult struct {
	SuccessCount int
	FailureCount int
}

// Sender delivers one batch of device tokens.
type Sender interface {
	Send(ctx context.Context, msg domain.PushMessage) (BatchResult, error)
}

type multicastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender sends through Firebase Cloud Messaging. Calls are paced by a token bucket.
type FCMSender struct {
	client  multicastClient
	limiter *rate.Limiter
}

// NewFCMSender authenticates with a service account file.
func NewFCMSender(ctx context.Context, credentialsFile, projectID string, ratePerSecond float64) (*FCMSender, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return newFCMSender(client, ratePerSecond), nil
}

func newFCMSender(client multicastClient, ratePerSecond float64) *FCMSender {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &FCMSender{client: client, limiter: rate.NewLimiter(limit, 1)}
}

func (s *FCMSender) Send(ctx context.Context, msg domain.PushMessage) (BatchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return BatchResult{}, err
	}

	logger.ExternalServiceCall("fcm", "SendEachForMulticast", "tokens", len(msg.Tokens))
	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			TTL:      durationPtr(24 * time.Hour),
		},
	})
	logger.ExternalServiceResult("fcm", "SendEachForMulticast", err)
	if err != nil {
		return BatchResult{}, err
	}
	return BatchResult{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}, nil
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

// LogSender only logs. It is used in development and when no provider is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg domain.PushMessage) (BatchResult, error) {
	logger.InfoContext(ctx, "push notification", "title", msg.Title, "body", msg.Body, "tokens", len(msg.Tokens))
	return BatchResult{SuccessCount: len(msg.Tokens)}, nil
}
