package repository

import (
	"context"
	"fmt"

	"npnbot/database"
	"npnbot/events"
	"npnbot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	transactionalBus  *events.TransactionalBus
	guildConfigRepo   service.GuildConfigRepository
	ticketRepo        service.TicketRepository
	ticketCounterRepo service.TicketCounterRepository
	antispamRepo      service.AntispamConfigRepository
	giveawayRepo      service.GiveawayRepository
	pollRepo          service.PollRepository
	pollVoteRepo      service.PollVoteRepository
	stickyRepo        service.StickyRepository
	afkRepo           service.AFKRepository
	reactionRoleRepo  service.ReactionRoleRepository
	donationRepo      service.DonationRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.guildConfigRepo = newGuildConfigRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.ticketCounterRepo = newTicketCounterRepositoryWithTx(tx)
	u.antispamRepo = newAntispamConfigRepositoryWithTx(tx)
	u.giveawayRepo = newGiveawayRepositoryWithTx(tx)
	u.pollRepo = newPollRepositoryWithTx(tx)
	u.pollVoteRepo = newPollVoteRepositoryWithTx(tx)
	u.stickyRepo = newStickyRepositoryWithTx(tx)
	u.afkRepo = newAFKRepositoryWithTx(tx)
	u.reactionRoleRepo = newReactionRoleRepositoryWithTx(tx)
	u.donationRepo = newDonationRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// GuildConfigRepository returns the guild config repository for this unit of work
func (u *unitOfWork) GuildConfigRepository() service.GuildConfigRepository {
	if u.guildConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildConfigRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() service.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// TicketCounterRepository returns the ticket counter repository for this unit of work
func (u *unitOfWork) TicketCounterRepository() service.TicketCounterRepository {
	if u.ticketCounterRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketCounterRepo
}

// AntispamConfigRepository returns the anti-spam config repository for this unit of work
func (u *unitOfWork) AntispamConfigRepository() service.AntispamConfigRepository {
	if u.antispamRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.antispamRepo
}

// GiveawayRepository returns the giveaway repository for this unit of work
func (u *unitOfWork) GiveawayRepository() service.GiveawayRepository {
	if u.giveawayRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.giveawayRepo
}

// PollRepository returns the poll repository for this unit of work
func (u *unitOfWork) PollRepository() service.PollRepository {
	if u.pollRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pollRepo
}

// PollVoteRepository returns the poll vote repository for this unit of work
func (u *unitOfWork) PollVoteRepository() service.PollVoteRepository {
	if u.pollVoteRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pollVoteRepo
}

// StickyRepository returns the sticky message repository for this unit of work
func (u *unitOfWork) StickyRepository() service.StickyRepository {
	if u.stickyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stickyRepo
}

// AFKRepository returns the AFK repository for this unit of work
func (u *unitOfWork) AFKRepository() service.AFKRepository {
	if u.afkRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.afkRepo
}

// ReactionRoleRepository returns the reaction role repository for this unit of work
func (u *unitOfWork) ReactionRoleRepository() service.ReactionRoleRepository {
	if u.reactionRoleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.reactionRoleRepo
}

// DonationRepository returns the donation repository for this unit of work
func (u *unitOfWork) DonationRepository() service.DonationRepository {
	if u.donationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.donationRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
