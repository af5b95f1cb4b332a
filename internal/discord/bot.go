package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"text-jester/internal/command"
	"text-jester/internal/config"
	"text-jester/internal/storage"
	"text-jester/internal/version"
)

// Bot is a Discord bot.
type Bot struct {
	dg      *discordgo.Session
	cfg     *config.Config
	storage *storage.Storage
	interp  *command.Interpreter
	exec    *command.Executor
	waiters *reactionWaiters

	// runCtx bounds long waits started by tasks, so shutdown cancels
	// pending acknowledgement waits.
	runCtx context.Context
}

// NewBot creates the bot and captures the process start time, which is
// threaded into the interpreter rather than read from global state.
func NewBot(cfg *config.Config, store *storage.Storage) *Bot {
	startTime := time.Now()
	return &Bot{
		cfg:     cfg,
		storage: store,
		interp: &command.Interpreter{
			Prefix:    cfg.CommandPrefix,
			StartTime: startTime,
			Store:     store,
		},
		exec:    command.NewExecutor(cfg.SketchifyURL),
		waiters: newReactionWaiters(),
	}
}

// Run connects to Discord and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.runCtx = ctx

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageReactionAdd)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

// configureIntents configures the Discord intents.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsAll
}

// onReady is called when the bot is ready.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if err := s.UpdateGameStatus(0, b.cfg.CommandPrefix+"react"); err != nil {
		log.Println("[WARN] Error setting presence:", err)
	}

	log.Printf("[INFO] ✅ %v is running as %v.", version.AppName, botInfo.Username)
}

// onMessageCreate is called when a message is created. Each event is
// dispatched on its own goroutine by discordgo, so tasks for distinct
// messages run concurrently while each task stays strictly sequential.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	isDM := m.GuildID == ""
	cmd := b.interp.Interpret(m.Content, isDM)
	if cmd == nil {
		return
	}

	log.Printf("[INFO] Message %s is a command, executing", m.ID)
	newTask(cmd, s, m.Message, b.exec, b.waiters).execute(b.runCtx)
}

// onMessageReactionAdd feeds reaction events to pending acknowledgement
// waits.
func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.waiters.deliver(r.MessageID, r.Emoji.Name, r.UserID)
}
