package discord

import (
	"context"
	"errors"
	"fmt"
	"giveaway-bot/internal/features/giveaway/service"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// messageSession is the part of *discordgo.Session the gateway uses.
type messageSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client implements service.Gateway on top of the Discord REST API.
type Client struct {
	session messageSession
	closer  func() error
	logger  zerolog.Logger
}

var _ service.Gateway = (*Client)(nil)

// Open creates a bot session and connects it to the Discord gateway.
func Open(token string, logger zerolog.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("empty discord bot token")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord session: %w", err)
	}

	logger.Info().Msg("Discord session opened")
	return &Client{session: session, closer: session.Close, logger: logger}, nil
}

// NewClient wraps an existing session.
func NewClient(session messageSession, logger zerolog.Logger) *Client {
	return &Client{session: session, logger: logger}
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Client) Publish(ctx context.Context, channelID, content string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (c *Client) Edit(ctx context.Context, channelID, messageID, content string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

func (c *Client) Fetch(ctx context.Context, channelID, messageID string) (string, error) {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if isNotFound(err) {
		return "", service.ErrArtifactNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	return msg.Content, nil
}

func (c *Client) Announce(ctx context.Context, channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to announce in channel %s: %w", channelID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	return restErr.Message != nil &&
		(restErr.Message.Code == discordgo.ErrCodeUnknownMessage || restErr.Message.Code == discordgo.ErrCodeUnknownChannel)
}
