package push

import (
	"context"
	"errors"
	"strings"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
)

var (
	ErrEmptyMessage = errors.New("EMPTY_MESSAGE")
	ErrNoRecipients = errors.New("NO_RECIPIENTS")
)

const (
	DefaultBatchSize = 80
	DefaultTitle     = "Skirent"
)

type TokenSource interface {
	ListTokens(ctx context.Context, audience domain.PushAudience) ([]string, error)
}

// Recorder counts delivered and failed device messages.
type Recorder interface {
	ObservePush(result string, count int)
}

type SendOptions struct {
	Audience     domain.PushAudience
	Title        string
	ExcludeToken string
	Data         map[string]string
}

// Result sums the batches of one Send call.
type Result struct {
	Recipients int
	Batches    int
	Sent       int
	Failed     int
}

// Dispatcher resolves an audience to device tokens and sends them in batches.
type Dispatcher struct {
	tokens    TokenSource
	sender    Sender
	batchSize int
	recorder  Recorder
}

func NewDispatcher(tokens TokenSource, sender Sender, batchSize int, recorder Recorder) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Dispatcher{tokens: tokens, sender: sender, batchSize: batchSize, recorder: recorder}
}

// Send stops at the first failing batch and returns the provider error unchanged.
func (d *Dispatcher) Send(ctx context.Context, body string, opts SendOptions) (Result, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Result{}, ErrEmptyMessage
	}
	if opts.Audience == "" {
		opts.Audience = domain.PushAudienceAll
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	all, err := d.tokens.ListTokens(ctx, opts.Audience)
	if err != nil {
		return Result{}, err
	}
	recipients := filterTokens(all, opts.ExcludeToken)
	if len(recipients) == 0 {
		return Result{}, ErrNoRecipients
	}

	res := Result{Recipients: len(recipients)}
	for _, batch := range chunk(recipients, d.batchSize) {
		out, err := d.sender.Send(ctx, domain.PushMessage{
			Tokens: batch,
			Title:  opts.Title,
			Body:   body,
			Data:   opts.Data,
		})
		if err != nil {
			d.observe("error", len(batch))
			logger.ErrorContext(ctx, "push batch failed", "audience", opts.Audience, "batch", res.Batches, "error", err)
			return res, err
		}
		res.Batches++
		res.Sent += out.SuccessCount
		res.Failed += out.FailureCount
		d.observe("success", out.SuccessCount)
		d.observe("failure", out.FailureCount)
	}

	logger.InfoContext(ctx, "push notification sent", "audience", opts.Audience, "recipients", res.Recipients, "failed", res.Failed)
	return res, nil
}

func (d *Dispatcher) observe(result string, count int) {
	if d.recorder != nil && count > 0 {
		d.recorder.ObservePush(result, count)
	}
}

// filterTokens drops blanks, duplicates and the excluded token, keeping order.
func filterTokens(tokens []string, exclude string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" || t == exclude {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func chunk(items []string, size int) [][]string {
	var chunks [][]string
	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}
