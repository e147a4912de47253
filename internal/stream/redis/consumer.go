package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/languagetool"
	"github.com/supporteval/judge-agent/internal/models"
	"github.com/supporteval/judge-agent/internal/rubric"
	"github.com/supporteval/judge-agent/internal/setup"
)

// Consumer reads conversation events from a Redis stream, runs the
// judge on each and publishes the evaluation to the result stream.
// Malformed and failed messages are acknowledged so the group never
// wedges on a poison message.
type Consumer struct {
	client *redis.Client
	cfg    *StreamConfig
	deps   *setup.Dependencies
	logger *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *StreamConfig, deps *setup.Dependencies, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client: client,
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var conversation models.Conversation
	if err := json.Unmarshal([]byte(payload), &conversation); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ack to skip it
		return
	}

	rubricName := c.cfg.RubricName
	if rubricName == "" {
		rubricName = rubric.DefaultRubricName
	}

	result := c.deps.Engine.Evaluate(ctx, conversation, rubricName, false, true)

	if c.deps.LanguageTool != nil {
		text := languagetool.ExtractChatbotText(conversation)
		result = c.deps.LanguageTool.Enhance(ctx, result, text)
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("conversation_id", result.ConversationID).
		Float64("overall_score", result.OverallScore).
		Bool("critical_error", result.Flags.CriticalError).
		Msg("Evaluation complete")

	c.publish(ctx, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, result models.EvaluationResult) {
	if c.cfg.ResultStream == "" {
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("conversation_id", result.ConversationID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.ResultStream,
		Values: map[string]any{"payload": string(body)},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("conversation_id", result.ConversationID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
