package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/supporteval/judge-agent/internal/config"
)

// Client sends a system+user prompt pair to a model backend and returns
// the raw completion text. Implementations wrap transport failures in
// *ModelCallError so callers can degrade instead of propagating.
type Client interface {
	Send(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ModelCallError covers network, timeout, non-2xx and malformed-envelope
// failures from a model API. The engine converts it into a flagged error
// result; it never escapes a single evaluation.
type ModelCallError struct {
	Provider config.Provider
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}

// NewHTTPClient builds the pooled HTTP client shared by the model
// adapters. The read timeout dominates total latency since model
// generation is slow; connect and pool timeouts are bounded separately
// so a dead upstream fails fast.
func NewHTTPClient(cfg config.JudgeConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       cfg.PoolTimeout,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   16,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout + cfg.WriteTimeout,
	}
}
