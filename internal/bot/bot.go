package bot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/commands/admin"
	voicecmds "github.com/FolkiDevv/partysys/commands/voice"
	"github.com/FolkiDevv/partysys/config"
	voiceevents "github.com/FolkiDevv/partysys/events/voice"
	"github.com/FolkiDevv/partysys/internal/commands"
	"github.com/FolkiDevv/partysys/internal/database"
	"github.com/FolkiDevv/partysys/internal/logger"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
)

type Bot struct {
	sessions []*discordgo.Session
	config   *config.Config
	logger   *logger.Logger

	db           *database.Database
	manager      *tempvoice.Manager
	scheduler    *tempvoice.Scheduler
	cmdHandler   *commands.Handler
	voiceHandler *voiceevents.Handler

	mu sync.RWMutex
}

func New(cfg *config.Config, l *logger.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if l == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord token is required")
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	return &Bot{
		config:   cfg,
		logger:   l,
		db:       db,
		sessions: make([]*discordgo.Session, 0),
	}, nil
}

func (b *Bot) Start() error {
	if b.config.Discord.Sharding.Enabled {
		return b.startSharded()
	}
	return b.startSingle()
}

func (b *Bot) startSingle() error {
	session, err := discordgo.New("Bot " + b.config.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %v", err)
	}

	b.mu.Lock()
	b.sessions = []*discordgo.Session{session}
	b.mu.Unlock()

	if err := b.setupSession(session, 0, 1); err != nil {
		return err
	}

	b.logger.Info("Bot started successfully in single mode")
	return nil
}

func (b *Bot) startSharded() error {
	totalShards := b.config.Discord.Sharding.TotalShards
	if totalShards <= 0 {
		return errors.New("invalid shard count")
	}

	b.mu.Lock()
	b.sessions = make([]*discordgo.Session, totalShards)
	b.mu.Unlock()

	var wg sync.WaitGroup
	errChan := make(chan error, totalShards)
	semaphore := make(chan struct{}, 5)

	for i := 0; i < totalShards; i++ {
		wg.Add(1)
		go func(shardID int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			session, err := discordgo.New("Bot " + b.config.Discord.Token)
			if err != nil {
				errChan <- fmt.Errorf("failed to create discord session for shard %d: %v", shardID, err)
				return
			}

			b.mu.Lock()
			b.sessions[shardID] = session
			b.mu.Unlock()

			if err := b.setupSession(session, shardID, totalShards); err != nil {
				errChan <- fmt.Errorf("failed to setup shard %d: %v", shardID, err)
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors starting sharded mode: %v", errs)
	}

	b.logger.Info("Bot started successfully in sharded mode")
	return nil
}

func (b *Bot) setupSession(session *discordgo.Session, shardID, totalShards int) error {
	session.ShardID = shardID
	session.ShardCount = totalShards
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages
	session.StateEnabled = true

	if err := b.setupHandlers(session); err != nil {
		return fmt.Errorf("failed to setup handlers: %v", err)
	}

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %v", err)
	}

	if shardID == 0 {
		if err := b.cmdHandler.LoadCommands(); err != nil {
			return fmt.Errorf("failed to load commands: %v", err)
		}
		if b.config.Discord.Status != "" {
			if err := session.UpdateGameStatus(0, b.config.Discord.Status); err != nil {
				b.logger.Errorf("Failed to set status: %v", err)
			}
		}
	}
	return nil
}

// setupHandlers constructs the shared temp-voice core on first call (shard 0
// owns it) and attaches the gateway handlers to the given session.
func (b *Bot) setupHandlers(session *discordgo.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.manager == nil {
		platform := tempvoice.NewPlatform(session)
		b.manager = tempvoice.NewManager(platform, b.db, &b.config.TempVoice, b.logger)
		b.scheduler = tempvoice.NewScheduler(b.manager, b.logger, b.config.TempVoice.SweepInterval())
		b.voiceHandler = voiceevents.NewHandler(b.manager, b.scheduler, b.logger)
		b.cmdHandler = commands.NewHandler(session, b.config, b.logger)

		voicecmds.SetManager(b.manager)
		admin.SetManager(b.manager)
		admin.SetDatabase(b.db)
	}

	session.AddHandler(b.cmdHandler.HandleCommand)
	session.AddHandler(b.voiceHandler.HandleVoiceStateUpdate)
	session.AddHandler(b.voiceHandler.HandleChannelUpdate)
	session.AddHandler(b.voiceHandler.HandleReady)
	return nil
}

func (b *Bot) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scheduler != nil {
		b.scheduler.Stop()
	}

	var errs []error
	for _, session := range b.sessions {
		if session == nil {
			continue
		}
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session: %v", err))
		}
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
