package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"text-jester/internal/command"
	"text-jester/internal/storage"
	"text-jester/internal/version"
)

const (
	okEmoji           = "🆗"
	defaultAckTimeout = 5 * time.Minute
	embedColor        = 0xF4EA3E
)

// gateway is the slice of the Discord session the task layer uses.
// *discordgo.Session satisfies it; tests substitute a fake.
type gateway interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// stepError reports which platform step failed and the message involved.
type stepError struct {
	step      string
	messageID string
	err       error
}

func (e *stepError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("unable to %s (message %s): %v", e.step, e.messageID, e.err)
	}
	return fmt.Sprintf("unable to %s (message %s)", e.step, e.messageID)
}

func (e *stepError) Unwrap() error {
	return e.err
}

// task binds one command to the message that triggered it. It is created
// per command-bearing message, executed exactly once, and discarded.
type task struct {
	command command.Command
	session gateway
	message *discordgo.Message
	exec    *command.Executor
	waiters *reactionWaiters

	ackTimeout time.Duration
}

func newTask(cmd command.Command, session gateway, message *discordgo.Message, exec *command.Executor, waiters *reactionWaiters) *task {
	return &task{
		command:    cmd,
		session:    session,
		message:    message,
		exec:       exec,
		waiters:    waiters,
		ackTimeout: defaultAckTimeout,
	}
}

// execute runs the command and carries out its response. This is the top
// of the pipeline for one message: every failure is logged here and none
// propagates further.
func (t *task) execute(ctx context.Context) {
	response, err := t.exec.Execute(ctx, t.command)
	if err != nil {
		var cmdErr *command.CommandError
		if !errors.As(err, &cmdErr) {
			cmdErr = &command.CommandError{Kind: command.ErrInternal, Err: err}
		}

		log.Printf("[WARN] Command on message %s failed: %v", t.message.ID, err)
		if reportErr := t.report(ctx, cmdErr); reportErr != nil {
			log.Printf("[ERR] Unable to report error for message %s: %v", t.message.ID, reportErr)
		}
		return
	}

	if err := t.respond(response); err != nil {
		log.Printf("[ERR] Unable to respond to message %s: %v", t.message.ID, err)
	}
}

// respond carries out the platform side effects for a successful response.
func (t *task) respond(response command.Response) error {
	switch r := response.(type) {
	case command.ClapResponse:
		return t.say(r.Output)
	case command.SpongebobResponse:
		return t.say(r.Output)
	case command.WavyResponse:
		return t.say(r.Output)
	case command.ZalgoResponse:
		return t.say(r.Output)
	case command.PongResponse:
		return t.say("Pong!")
	case command.InfoResponse:
		return t.sendInfo(r)
	case command.ReactResponse:
		return t.addReactions(r.Reactions)
	case command.SketchifyResponse:
		return t.sendSketchified(r.URL.String())
	case command.KarmaResponse:
		return t.say(fmt.Sprintf("%s has %d karma.", r.Subject, r.Count))
	case command.KarmaTopResponse:
		return t.say(formatKarmaTop(r.Top))
	case command.KarmaIncrementResponse:
		return t.say(fmt.Sprintf("%s now has %d karma.", r.Subject, r.Total))
	case command.KarmaDecrementResponse:
		return t.say(fmt.Sprintf("%s now has %d karma.", r.Subject, r.Total))
	default:
		return fmt.Errorf("unhandled response type %T", response)
	}
}

func (t *task) say(content string) error {
	if _, err := t.session.ChannelMessageSend(t.message.ChannelID, content); err != nil {
		return &stepError{step: "send message", messageID: t.message.ID, err: err}
	}
	return nil
}

// sendInfo sends the info embed. The avatar fetch is best-effort; without
// it the embed simply has no icon.
func (t *task) sendInfo(info command.InfoResponse) error {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    version.AppName,
			URL:     version.Homepage,
			IconURL: t.ownAvatarURL(),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Version", Value: info.Version, Inline: true},
			{Name: "Uptime", Value: info.Uptime.String(), Inline: true},
			{Name: "Homepage", Value: info.Homepage},
		},
		Color: embedColor,
	}

	if _, err := t.session.ChannelMessageSendEmbed(t.message.ChannelID, embed); err != nil {
		return &stepError{step: "send info embed", messageID: t.message.ID, err: err}
	}
	return nil
}

// addReactions applies the reaction tokens, in order, to the message
// immediately preceding the trigger, then deletes the trigger. Reactions
// already applied are not rolled back on failure.
func (t *task) addReactions(reactions []string) error {
	previous, err := t.session.ChannelMessages(t.message.ChannelID, 1, t.message.ID, "", "")
	if err != nil || len(previous) == 0 {
		return &stepError{step: "get message before", messageID: t.message.ID, err: err}
	}

	target, err := t.session.ChannelMessage(t.message.ChannelID, previous[0].ID)
	if err != nil {
		return &stepError{step: "get message by id", messageID: previous[0].ID, err: err}
	}

	for _, reaction := range reactions {
		if err := t.session.MessageReactionAdd(t.message.ChannelID, target.ID, reaction); err != nil {
			return &stepError{step: "react to message", messageID: target.ID, err: err}
		}
	}

	if err := t.session.ChannelMessageDelete(t.message.ChannelID, t.message.ID); err != nil {
		return &stepError{step: "delete message", messageID: t.message.ID, err: err}
	}

	return nil
}

// sendSketchified mentions the requesting user with the converted URL,
// then deletes the trigger message.
func (t *task) sendSketchified(sketchyURL string) error {
	content := fmt.Sprintf("<@%s>: <%s>", t.message.Author.ID, sketchyURL)
	if err := t.say(content); err != nil {
		return err
	}

	if err := t.session.ChannelMessageDelete(t.message.ChannelID, t.message.ID); err != nil {
		return &stepError{step: "delete message", messageID: t.message.ID, err: err}
	}

	return nil
}

// report runs the error-report protocol: post an embed explaining the
// failure with an OK reaction prompt, wait up to the timeout for the
// original author to acknowledge, then clean up. On acknowledgement both
// the report and the trigger message are deleted; on timeout only the
// bot's own prompt reaction is removed.
func (t *task) report(ctx context.Context, cmdErr *command.CommandError) error {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    version.AppName,
			URL:     version.Homepage,
			IconURL: t.ownAvatarURL(),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Error", Value: cmdErr.UserMessage()},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Click OK within 5 mins to delete."},
		Color:  embedColor,
	}

	sent, err := t.session.ChannelMessageSendEmbed(t.message.ChannelID, embed)
	if err != nil {
		return &stepError{step: "send error report", messageID: t.message.ID, err: err}
	}

	if err := t.session.MessageReactionAdd(t.message.ChannelID, sent.ID, okEmoji); err != nil {
		log.Printf("[WARN] Unable to add OK prompt to error report %s: %v", sent.ID, err)
	}

	key := waitKey{MessageID: sent.ID, Emoji: okEmoji, UserID: t.message.Author.ID}
	if t.waiters.await(ctx, key, t.ackTimeout) {
		log.Printf("[INFO] Got an OK reaction on error report %s, deleting", sent.ID)

		if err := t.session.ChannelMessageDelete(t.message.ChannelID, sent.ID); err != nil {
			log.Printf("[ERR] Unable to delete error report %s: %v", sent.ID, err)
		}
		if err := t.session.ChannelMessageDelete(t.message.ChannelID, t.message.ID); err != nil {
			log.Printf("[ERR] Unable to delete original message %s: %v", t.message.ID, err)
		}
		return nil
	}

	log.Printf("[INFO] No OK reaction on error report %s, leaving it in place", sent.ID)
	if err := t.session.MessageReactionRemove(t.message.ChannelID, sent.ID, okEmoji, "@me"); err != nil {
		log.Printf("[WARN] Unable to remove OK prompt from error report %s: %v", sent.ID, err)
	}
	return nil
}

// ownAvatarURL fetches the bot's avatar URL, tolerating failure.
func (t *task) ownAvatarURL() string {
	user, err := t.session.User("@me")
	if err != nil {
		log.Printf("[WARN] Unable to retrieve avatar URL for bot: %v", err)
		return ""
	}
	return user.AvatarURL("")
}

func formatKarmaTop(top []storage.KarmaEntry) string {
	if len(top) == 0 {
		return "Nobody has any karma yet."
	}

	var b strings.Builder
	b.WriteString("Top karma:")
	for i, entry := range top {
		b.WriteString(fmt.Sprintf("\n%d. %s: %d", i+1, entry.Subject, entry.Count))
	}
	return b.String()
}
