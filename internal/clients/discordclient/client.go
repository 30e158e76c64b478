package discordclient

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/evetools/ratwatch/internal/config"
)

// messagesPageSize is the largest page the message history endpoint serves.
const messagesPageSize = 100

type Client struct {
	session Session
	cfg     *config.DiscordConfig
}

// SessionFactory creates gateway sessions; swapped out in tests.
type SessionFactory func(token string) (Session, error)

var defaultSessionFactory SessionFactory = func(token string) (Session, error) {
	return discordgo.New("Bot " + token)
}

func NewClient(cfg *config.DiscordConfig) (*Client, error) {
	return NewClientWithFactory(cfg, defaultSessionFactory)
}

func NewClientWithFactory(cfg *config.DiscordConfig, factory SessionFactory) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("discord config is required")
	}

	session, err := factory(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &Client{session: session, cfg: cfg}, nil
}

func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

func (c *Client) Close() {
	if err := c.session.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close discord gateway")
	}
}

func (c *Client) SetPresence(ctx context.Context, status string) error {
	return c.session.UpdateGameStatus(0, status)
}

// ClearChannel deletes every message in the report channel. The bot owns the
// channel exclusively, so the wipe is not scoped to its own messages.
func (c *Client) ClearChannel(ctx context.Context) error {
	for {
		messages, err := c.session.ChannelMessages(
			c.cfg.ChannelID, messagesPageSize, "", "", "", discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to list channel messages: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}

		ids := make([]string, 0, len(messages))
		for _, message := range messages {
			ids = append(ids, message.ID)
		}

		if len(ids) == 1 {
			if err := c.session.ChannelMessageDelete(c.cfg.ChannelID, ids[0], discordgo.WithContext(ctx)); err != nil {
				return fmt.Errorf("failed to delete message %s: %w", ids[0], err)
			}
			continue
		}

		if err := c.session.ChannelMessagesBulkDelete(c.cfg.ChannelID, ids, discordgo.WithContext(ctx)); err != nil {
			// Bulk delete rejects messages older than two weeks; fall back to
			// deleting them one by one.
			log.Ctx(ctx).Debug().Err(err).Msg("bulk delete rejected, deleting messages individually")
			for _, id := range ids {
				if err := c.session.ChannelMessageDelete(c.cfg.ChannelID, id, discordgo.WithContext(ctx)); err != nil {
					return fmt.Errorf("failed to delete message %s: %w", id, err)
				}
			}
		}
	}
}

func (c *Client) PostImage(ctx context.Context, filename string, image []byte) error {
	_, err := c.session.ChannelFileSend(
		c.cfg.ChannelID, filename, bytes.NewReader(image), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", filename, err)
	}
	return nil
}

// HandleCommands registers the prefix-triggered command dispatch on the
// gateway's own delivery goroutine. respond maps a bare command word to the
// reply text; an empty reply suppresses the answer.
func (c *Client) HandleCommands(respond func(command string) string) {
	prefix := c.cfg.CommandPrefix

	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if !strings.HasPrefix(m.Content, prefix) {
			return
		}

		command := strings.Fields(strings.TrimPrefix(m.Content, prefix))
		if len(command) == 0 {
			return
		}

		reply := respond(command[0])
		if reply == "" {
			return
		}
		if _, err := c.session.ChannelMessageSend(m.ChannelID, reply); err != nil {
			log.Warn().Err(err).Str("command", command[0]).Msg("failed to answer command")
		}
	})
}
