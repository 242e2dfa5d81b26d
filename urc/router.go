package urc

//go:generate go tool mockgen -source=router.go -destination=mock_router_test.go -package=urc_test

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Topics are the inbound topic patterns of the cloud protocol.
type Topics struct {
	// Attributes is the exact attribute update topic.
	Attributes string `yaml:"attributes"`
	// AttributeResponsePrefix precedes the request id of an attribute
	// response.
	AttributeResponsePrefix string `yaml:"attribute_response_prefix"`
	// RPCRequestPrefix precedes the numeric request id of an RPC request.
	RPCRequestPrefix string `yaml:"rpc_request_prefix"`
}

// DefaultTopics returns the ThingsBoard device API topics.
func DefaultTopics() Topics {
	return Topics{
		Attributes:              "v1/devices/me/attributes",
		AttributeResponsePrefix: "v1/devices/me/attributes/response/",
		RPCRequestPrefix:        "v1/devices/me/rpc/request/",
	}
}

// Subscriptions returns the topic filters covering all three patterns.
func (t Topics) Subscriptions() []string {
	return []string{
		t.Attributes,
		t.RPCRequestPrefix + "+",
		t.AttributeResponsePrefix + "+",
	}
}

// CloudHandler handles routed cloud messages.
type CloudHandler interface {
	HandleAttributes(ctx context.Context, payload string) error
	HandleRPC(ctx context.Context, requestID, payload string) error
}

// Router classifies message topics and calls the matching CloudHandler
// method. It implements MessageHandler.
type Router struct {
	topics  Topics
	handler CloudHandler
	logger  *slog.Logger
}

func NewRouter(topics Topics, handler CloudHandler, logger *slog.Logger) (*Router, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		topics:  topics,
		handler: handler,
		logger:  logger.With("component", "router"),
	}, nil
}

var _ MessageHandler = (*Router)(nil)

// HandleMessage routes an attribute update or attribute response to
// HandleAttributes and an RPC request to HandleRPC with its request id.
func (r *Router) HandleMessage(ctx context.Context, topic, payload string) error {
	switch {
	case topic == r.topics.Attributes:
		r.logger.Debug("attribute update", "payload", payload)
		return r.handler.HandleAttributes(ctx, payload)

	case r.topics.RPCRequestPrefix != "" && strings.HasPrefix(topic, r.topics.RPCRequestPrefix):
		id := strings.TrimPrefix(topic, r.topics.RPCRequestPrefix)
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return fmt.Errorf("%w: %s: bad request id", ErrUnknownTopic, topic)
		}
		r.logger.Debug("rpc request", "id", id, "payload", payload)
		return r.handler.HandleRPC(ctx, id, payload)

	case r.topics.AttributeResponsePrefix != "" && strings.HasPrefix(topic, r.topics.AttributeResponsePrefix):
		r.logger.Debug("attribute response", "payload", payload)
		return r.handler.HandleAttributes(ctx, payload)
	}

	r.logger.Warn("unhandled topic", "topic", topic, "payload", payload)
	return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
}
