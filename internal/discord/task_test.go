package discord

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-jester/internal/command"
)

// fakeGateway records platform operations and lets tests fail individual
// steps. It stands in for *discordgo.Session behind the gateway interface.
type fakeGateway struct {
	mu sync.Mutex

	sentMessages     []string
	sentEmbeds       []*discordgo.MessageEmbed
	reactionsAdded   []string
	reactionsRemoved []string
	deleted          []string

	previousMessages []*discordgo.Message
	previousErr      error
	fetchErr         error
	sendErr          error
	reactionErr      error
	deleteErr        error
	userErr          error

	nextMessageID int
}

func (f *fakeGateway) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentMessages = append(f.sentMessages, content)
	return f.newMessage(channelID), nil
}

func (f *fakeGateway) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentEmbeds = append(f.sentEmbeds, embed)
	return f.newMessage(channelID), nil
}

func (f *fakeGateway) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.previousMessages, f.previousErr
}

func (f *fakeGateway) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *fakeGateway) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeGateway) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reactionErr != nil {
		return f.reactionErr
	}
	f.reactionsAdded = append(f.reactionsAdded, emojiID)
	return nil
}

func (f *fakeGateway) MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactionsRemoved = append(f.reactionsRemoved, emojiID+"/"+userID)
	return nil
}

func (f *fakeGateway) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &discordgo.User{ID: "bot", Username: "testbot"}, nil
}

// newMessage must be called with f.mu held.
func (f *fakeGateway) newMessage(channelID string) *discordgo.Message {
	f.nextMessageID++
	return &discordgo.Message{ID: fmt.Sprintf("sent-%d", f.nextMessageID), ChannelID: channelID}
}

func (f *fakeGateway) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sentEmbeds)
}

func (f *fakeGateway) snapshotDeleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func triggerMessage() *discordgo.Message {
	return &discordgo.Message{
		ID:        "trigger",
		ChannelID: "chan",
		Author:    &discordgo.User{ID: "author"},
	}
}

func newTestTask(cmd command.Command, fake *fakeGateway) *task {
	tk := newTask(cmd, fake, triggerMessage(), command.NewExecutor("http://unused.invalid"), newReactionWaiters())
	tk.ackTimeout = 50 * time.Millisecond
	return tk
}

func TestRespondSendsPlainText(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.Clap{Input: "hello world"}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.sentMessages, 1)
	assert.Equal(t, "hello 👏 world 👏", fake.sentMessages[0])
	assert.Empty(t, fake.deleted)
}

func TestRespondPong(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.Ping{}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.sentMessages, 1)
	assert.Equal(t, "Pong!", fake.sentMessages[0])
}

func TestRespondInfoEmbed(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.Info{StartTime: time.Now().Add(-time.Hour)}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.sentEmbeds, 1)
	embed := fake.sentEmbeds[0]
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Version", embed.Fields[0].Name)
	assert.Equal(t, "Uptime", embed.Fields[1].Name)
	assert.Equal(t, "Homepage", embed.Fields[2].Name)
	assert.Equal(t, embedColor, embed.Color)
}

func TestRespondInfoOmitsIconWhenProfileUnavailable(t *testing.T) {
	fake := &fakeGateway{userErr: errors.New("profile unavailable")}
	tk := newTestTask(command.Info{StartTime: time.Now()}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.sentEmbeds, 1)
	assert.Empty(t, fake.sentEmbeds[0].Author.IconURL)
}

func TestRespondReactAddsReactionsInOrderAndDeletesTrigger(t *testing.T) {
	fake := &fakeGateway{
		previousMessages: []*discordgo.Message{{ID: "target", ChannelID: "chan"}},
	}
	tk := newTestTask(command.React{Input: "ab"}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.reactionsAdded, 2)
	assert.Equal(t, string(rune('a')+0x1F185), fake.reactionsAdded[0])
	assert.Equal(t, string(rune('b')+0x1F185), fake.reactionsAdded[1])
	assert.Equal(t, []string{"trigger"}, fake.deleted)
}

func TestRespondReactNoPreviousMessage(t *testing.T) {
	fake := &fakeGateway{previousMessages: nil}
	tk := newTestTask(command.React{Input: "ab"}, fake)

	err := tk.respond(command.ReactResponse{Reactions: []string{"x"}})
	require.Error(t, err)

	var step *stepError
	require.True(t, errors.As(err, &step))
	assert.Equal(t, "get message before", step.step)
	assert.Equal(t, "trigger", step.messageID)
	assert.Empty(t, fake.deleted)
}

func TestRespondReactFailureDoesNotRollBack(t *testing.T) {
	fake := &fakeGateway{
		previousMessages: []*discordgo.Message{{ID: "target", ChannelID: "chan"}},
		deleteErr:        errors.New("missing permission"),
	}
	tk := newTestTask(command.React{Input: "ab"}, fake)

	err := tk.respond(command.ReactResponse{Reactions: []string{"🅰", "🅱"}})
	require.Error(t, err)

	// Reactions applied before the failing delete stay applied.
	assert.Len(t, fake.reactionsAdded, 2)
}

func TestRespondSketchifyMentionsAuthorAndDeletesTrigger(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(nil, fake)

	u, err := url.Parse("http://verylegit.link/abc")
	require.NoError(t, err)

	require.NoError(t, tk.respond(command.SketchifyResponse{URL: u}))

	require.Len(t, fake.sentMessages, 1)
	assert.Equal(t, "<@author>: <http://verylegit.link/abc>", fake.sentMessages[0])
	assert.Equal(t, []string{"trigger"}, fake.deleted)
}

// ackLoop keeps delivering the given acknowledgement until the task
// finishes, covering the window before the waiter registers.
func ackLoop(tk *task, fake *fakeGateway, userID string, done <-chan struct{}) {
	for {
		if fake.embedCount() > 0 {
			tk.waiters.deliver("sent-1", okEmoji, userID)
		}
		select {
		case <-done:
			return
		case <-time.After(time.Millisecond):
		}
	}
}

func TestReportAcknowledgedDeletesBothMessages(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.React{Input: "aab"}, fake)
	tk.ackTimeout = time.Second

	done := make(chan struct{})
	go func() {
		defer close(done)
		tk.execute(context.Background())
	}()
	go ackLoop(tk, fake, "author", done)
	<-done

	require.Len(t, fake.sentEmbeds, 1)
	embed := fake.sentEmbeds[0]
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Error", embed.Fields[0].Name)
	assert.Equal(t, "String **AAB** contains repeated characters!", embed.Fields[0].Value)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Click OK within 5 mins to delete.", embed.Footer.Text)

	assert.ElementsMatch(t, []string{"sent-1", "trigger"}, fake.snapshotDeleted())
}

func TestReportIgnoresAcknowledgementFromOtherUsers(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.React{Input: "aab"}, fake)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tk.execute(context.Background())
	}()
	go ackLoop(tk, fake, "impostor", done)
	<-done

	// Timed out: nothing deleted, only the bot's own prompt removed.
	assert.Empty(t, fake.snapshotDeleted())
	assert.Equal(t, []string{okEmoji + "/@me"}, fake.reactionsRemoved)
}

func TestReportTimeoutRemovesPromptAndKeepsMessages(t *testing.T) {
	fake := &fakeGateway{}
	tk := newTestTask(command.React{Input: "ab!"}, fake)

	tk.execute(context.Background())

	require.Len(t, fake.sentEmbeds, 1)
	assert.Empty(t, fake.deleted)
	assert.Equal(t, []string{okEmoji + "/@me"}, fake.reactionsRemoved)
	// The prompt reaction was added to the report before the wait.
	assert.Equal(t, []string{okEmoji}, fake.reactionsAdded)
}

func TestReportSendFailureIsNotRetried(t *testing.T) {
	fake := &fakeGateway{sendErr: errors.New("channel gone")}
	tk := newTestTask(command.React{Input: "aab"}, fake)

	start := time.Now()
	tk.execute(context.Background())

	// No wait happens when the report could not be sent.
	assert.Less(t, time.Since(start), tk.ackTimeout)
	assert.Empty(t, fake.reactionsAdded)
	assert.Empty(t, fake.deleted)
}
