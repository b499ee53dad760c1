// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/precie21/astral-assistant/internal/model"
	"github.com/precie21/astral-assistant/internal/provider"
)

// SystemPreamble is the fixed persona prepended to every provider request.
// It is never persisted in the conversation history.
const SystemPreamble = "You are ASTRAL, an advanced AI assistant with deep system integration. " +
	"You help users with tasks, answer questions, control their computer, and provide " +
	"intelligent assistance. Be concise, helpful, and professional. When users ask you " +
	"to perform system actions, confirm you understand and execute them. You have a " +
	"British accent and personality."

// =============================================================================
// REPLY TYPE
// =============================================================================

// Reply is the result of one completed exchange.
type Reply struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

// =============================================================================
// DISPATCHER
// =============================================================================

// ClientFactory returns the provider client for a given backend. It exists
// so tests can substitute stub clients; the default is provider.NewClient.
type ClientFactory func(provider.Provider) provider.Client

// Dispatcher owns the conversation history and the active provider
// configuration. One lock guards both so a config update and an in-flight
// Send cannot interleave into a torn read; the lock is held across the
// provider round-trip by design.
type Dispatcher struct {
	mu        sync.Mutex
	history   *History
	cfg       provider.Config
	newClient ClientFactory
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// New creates a dispatcher with the given configuration.
func New(cfg provider.Config, logger *zap.Logger) *Dispatcher {
	return NewWithFactory(cfg, provider.NewClient, logger)
}

// NewWithFactory creates a dispatcher with a custom client factory.
func NewWithFactory(cfg provider.Config, factory ClientFactory, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		history:   NewHistory(),
		cfg:       cfg,
		newClient: factory,
		// One request per second with a small burst keeps a chatty UI from
		// hammering a metered cloud API.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:  logger,
	}
}

// Send appends the user message, performs one provider round-trip with the
// system preamble injected, and on success appends the assistant reply and
// trims the history to the last MaxHistory entries.
//
// On failure the user message stays in the history: the conversation
// reflects what was asked even if it went unanswered. This is a documented
// policy choice, not an oversight.
func (d *Dispatcher) Send(ctx context.Context, text string) (*Reply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history.Append(model.NewUserMessage(text))

	outbound := make([]model.Message, 0, d.history.Len()+1)
	outbound = append(outbound, model.NewSystemMessage(SystemPreamble))
	outbound = append(outbound, d.history.Messages()...)

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("dispatch canceled: %w", err)
	}

	// The window is enforced on both paths so repeated failures cannot grow
	// the store past MaxHistory.
	defer d.history.Trim()

	client := d.newClient(d.cfg.Provider)
	resp, err := client.Complete(ctx, outbound, d.cfg)
	if err != nil {
		d.logger.Warn("provider call failed",
			zap.String("provider", d.cfg.Provider.String()),
			zap.String("model", d.cfg.Model),
			zap.Error(err))
		return nil, fmt.Errorf("dispatch to %s failed: %w", d.cfg.Provider, err)
	}

	d.history.Append(model.NewAssistantMessage(resp.Content))

	d.logger.Debug("exchange completed",
		zap.String("provider", d.cfg.Provider.String()),
		zap.String("model", resp.Model),
		zap.Int("tokens_used", resp.TokensUsed),
		zap.Int("history_len", d.history.Len()))

	return &Reply{
		Content:    resp.Content,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}, nil
}

// UpdateConfig atomically replaces the active provider configuration.
// The conversation history is unaffected.
func (d *Dispatcher) UpdateConfig(cfg provider.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.logger.Info("provider config updated",
		zap.String("provider", cfg.Provider.String()),
		zap.String("model", cfg.Model))
	return nil
}

// Config returns a copy of the active provider configuration.
func (d *Dispatcher) Config() provider.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// ClearHistory empties the conversation store unconditionally.
func (d *Dispatcher) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history.Clear()
}

// History returns a snapshot of the conversation in chronological order.
func (d *Dispatcher) History() []model.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Messages()
}
