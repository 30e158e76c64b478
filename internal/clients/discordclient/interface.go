package discordclient

import (
	"context"
	"io"

	"github.com/bwmarrin/discordgo"
)

// DiscordInterface is the slice of the chat platform the cycle loop consumes.
type DiscordInterface interface {
	SetPresence(ctx context.Context, status string) error
	ClearChannel(ctx context.Context) error
	PostImage(ctx context.Context, filename string, image []byte) error
}

// Session is the slice of *discordgo.Session the client uses, extracted so
// tests can substitute a fake gateway.
type Session interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
	UpdateGameStatus(idle int, name string) error
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelFileSend(channelID, name string, r io.Reader, options ...discordgo.RequestOption) (*discordgo.Message, error)
}
