package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"i4.energy/across/telemetrygw/settings"
	"i4.energy/across/telemetrygw/urc"
)

// RPC method names.
const (
	MethodRun    = "Run"
	MethodStop   = "Stop"
	MethodReboot = "Reboot"
)

type HandlerConfig struct {
	Logger    *slog.Logger
	Settings  SettingsStore
	Listener  SettingsListener
	Commander Commander
	// Restarter is called after a Reboot command. Optional.
	Restarter Restarter
	// RestartDelay defaults to one second.
	RestartDelay time.Duration
	// Replies publishes RPC results when set.
	Replies Publisher
	// ResponsePrefix defaults to RPCResponsePrefix.
	ResponsePrefix string
}

// Handler applies shared attribute updates and executes RPC commands.
type Handler struct {
	config HandlerConfig
	logger *slog.Logger
}

func NewHandler(config HandlerConfig) (*Handler, error) {
	if config.Settings == nil {
		return nil, ErrNoSettings
	}
	if config.Commander == nil {
		return nil, ErrNoCommander
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.RestartDelay <= 0 {
		config.RestartDelay = time.Second
	}
	if config.ResponsePrefix == "" {
		config.ResponsePrefix = RPCResponsePrefix
	}
	return &Handler{
		config: config,
		logger: config.Logger.With("component", "cloud"),
	}, nil
}

var _ urc.CloudHandler = (*Handler)(nil)

// HandleAttributes stores the recognized keys of an attribute object,
// optionally wrapped in "shared". Floats keep two decimals, integers are
// truncated. Unknown keys and non-numeric values are ignored.
func (h *Handler) HandleAttributes(ctx context.Context, payload string) error {
	attrs, err := decodeObject(payload)
	if err != nil {
		return err
	}
	if raw, ok := attrs["shared"]; ok {
		if shared, err := decodeObject(string(raw)); err == nil {
			attrs = shared
		}
	}

	stored := 0
	for _, key := range settings.FloatKeys {
		if v, ok := h.number(attrs, key); ok {
			h.config.Settings.SetFloat(key, math.Round(v*100)/100)
			stored++
		}
	}
	for _, key := range settings.IntKeys {
		if v, ok := h.number(attrs, key); ok {
			h.config.Settings.SetInt(key, int(v))
			stored++
		}
	}
	if stored == 0 {
		h.logger.Info("no recognized attributes", "payload", payload)
		return nil
	}

	if err := h.config.Settings.Commit(); err != nil {
		return fmt.Errorf("commit attributes: %w", err)
	}
	ints := h.config.Settings.Ints()
	h.logger.Info("attributes stored", "count", stored, "ints", ints)

	if h.config.Listener != nil {
		if err := h.config.Listener.SettingsChanged(ctx, ints); err != nil {
			return fmt.Errorf("apply attributes: %w", err)
		}
	}
	return nil
}

func (h *Handler) number(attrs map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := attrs[key]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		h.logger.Warn("attribute is not a number", "key", key, "value", string(raw))
		return 0, false
	}
	return v, true
}

func decodeObject(s string) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayload, s)
	}
	return m, nil
}

type rpcRequest struct {
	Method json.RawMessage `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HandleRPC runs the requested method and, when replies are enabled,
// publishes the result to the response topic with the same request id.
func (h *Handler) HandleRPC(ctx context.Context, requestID, payload string) error {
	runErr := h.runRPC(ctx, requestID, payload)

	result := rpcResult{Success: runErr == nil}
	if runErr != nil {
		result.Error = runErr.Error()
		if errors.Is(runErr, ErrInvalidMethod) {
			result.Error = ErrInvalidMethod.Error()
		}
		if errors.Is(runErr, ErrUnknownMethod) {
			result.Error = ErrUnknownMethod.Error()
		}
	}

	if h.config.Replies != nil {
		b, _ := json.Marshal(result)
		if err := h.config.Replies.Publish(ctx, h.config.ResponsePrefix+requestID, string(b)); err != nil {
			h.logger.Warn("rpc reply failed", "id", requestID, "error", err)
		}
	}
	return runErr
}

func (h *Handler) runRPC(ctx context.Context, requestID, payload string) error {
	var req rpcRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMethod, ErrInvalidPayload)
	}
	var method string
	if len(bytes.TrimSpace(req.Method)) == 0 || json.Unmarshal(req.Method, &method) != nil {
		return ErrInvalidMethod
	}

	h.logger.Info("rpc", "id", requestID, "method", method)
	switch method {
	case MethodRun:
		return h.config.Commander.StartCycle(ctx)
	case MethodStop:
		return h.config.Commander.StopCycle(ctx)
	case MethodReboot:
		if err := h.config.Commander.ResetController(ctx); err != nil {
			return err
		}
		if h.config.Restarter != nil {
			time.AfterFunc(h.config.RestartDelay, func() {
				h.config.Restarter.Restart("rpc reboot")
			})
		}
		return nil
	}
	h.logger.Warn("unknown rpc method", "id", requestID, "method", method)
	return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}
