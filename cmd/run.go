package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"npnbot/bot"
	"npnbot/bot/features/afk"
	"npnbot/bot/features/announcements"
	"npnbot/bot/features/antispam"
	"npnbot/bot/features/donations"
	"npnbot/bot/features/giveaways"
	"npnbot/bot/features/polls"
	"npnbot/bot/features/reactionroles"
	"npnbot/bot/features/sticky"
	"npnbot/bot/features/tickets"
	"npnbot/bot/features/welcome"
	"npnbot/config"
	"npnbot/database"
	"npnbot/events"
	"npnbot/repository"
	"npnbot/service"

	"github.com/bwmarrin/discordgo"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting npnbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// The session is created before the services so the Discord-facing
	// adapters (channel creation, entrant reads, result announcements) can
	// be built against it
	log.Println("Creating Discord session...")
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	// Initialize services
	log.Println("Initializing services...")
	finalizeTimeout := time.Duration(cfg.FinalizeTimeoutSeconds) * time.Second
	ticketService := service.NewTicketService(uowFactory, tickets.NewChannelCreator(session, cfg.TicketCategoryName))
	giveawayService := service.NewGiveawayService(uowFactory, giveaways.NewReactionEntrants(session), giveaways.NewAnnouncer(session), finalizeTimeout)
	pollService := service.NewPollService(uowFactory, polls.NewResultsAnnouncer(session), finalizeTimeout)
	guildConfigService := service.NewGuildConfigService(uowFactory)
	antispamService := service.NewAntispamService(uowFactory)
	stickyService := service.NewStickyService(uowFactory)
	afkService := service.NewAFKService(uowFactory)
	reactionRoleService := service.NewReactionRoleService(uowFactory)
	donationService := service.NewDonationService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	features := bot.Features{
		Tickets:       tickets.NewFeature(session, ticketService),
		Giveaways:     giveaways.NewFeature(session, giveawayService),
		Polls:         polls.NewFeature(session, pollService),
		ReactionRoles: reactionroles.NewFeature(session, reactionRoleService),
		Antispam:      antispam.NewFeature(session, antispamService),
		Sticky:        sticky.NewFeature(session, stickyService),
		AFK:           afk.NewFeature(session, afkService),
		Welcome:       welcome.NewFeature(session, guildConfigService),
		Announcements: announcements.NewFeature(session),
		Donations:     donations.NewFeature(session, donationService),
	}

	discordBot, err := bot.New(bot.Config{Prefix: cfg.Prefix}, session, features, antispamService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the expiry sweep
	sweepInterval := time.Duration(cfg.SweepIntervalSeconds) * time.Second
	stopSweep := discordBot.StartExpirySweepWorker(ctx, giveawayService, pollService, sweepInterval)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	stopSweep()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
