package services

import (
	"errors"
	"fmt"
	"log"

	"action-quest-system/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// QueueService manages per-player action queues: starting new actions,
// previewing accrued rewards and committing them to the ledger.
type QueueService struct {
	DB          *gorm.DB
	Clock       clockwork.Clock
	Ledger      Ledger
	Catalog     *CatalogService
	Boosts      *BoostService
	Checkpoints *CheckpointService
	Calendar    *CalendarService
}

func NewQueueService(db *gorm.DB, clock clockwork.Clock, ledger Ledger, catalog *CatalogService, boosts *BoostService, checkpoints *CheckpointService, calendar *CalendarService) *QueueService {
	return &QueueService{
		DB:          db,
		Clock:       clock,
		Ledger:      ledger,
		Catalog:     catalog,
		Boosts:      boosts,
		Checkpoints: checkpoints,
		Calendar:    calendar,
	}
}

// QueuedActionInput is one requested queue entry.
type QueuedActionInput struct {
	ActionID         int64 `json:"action_id"`
	ChoiceID         int64 `json:"choice_id"`
	ChoiceID1        int64 `json:"choice_id_1"`
	ChoiceID2        int64 `json:"choice_id_2"`
	RegenerateItemID int64 `json:"regenerate_item_id"`
	RightHandItemID  int64 `json:"right_hand_item_id"`
	LeftHandItemID   int64 `json:"left_hand_item_id"`
	Timespan         int64 `json:"timespan"`
}

// PendingState is the outcome of settling a player's queue up to now.
// The same structure serves both the read-only preview and the commit
// path so the two can never drift apart.
type PendingState struct {
	XPGained                  []SkillXPGain      `json:"xp_gained"`
	Produced                  []models.Equipment `json:"produced"`
	ProducedThresholdRewards  []models.Equipment `json:"produced_threshold_rewards"`
	ProducedRandomRewards     []models.Equipment `json:"produced_random_rewards"`
	ProducedPastRandomRewards []models.Equipment `json:"produced_past_random_rewards"`
	PendingTickets            int64              `json:"pending_tickets"`
}

func (p *PendingState) addXP(skill models.Skill, xp int64) {
	for i := range p.XPGained {
		if p.XPGained[i].Skill == skill {
			p.XPGained[i].XP = saturatingAdd(p.XPGained[i].XP, xp)
			return
		}
	}
	p.XPGained = append(p.XPGained, SkillXPGain{Skill: skill, XP: xp})
}

// EnsurePlayer returns the player row, creating it on first contact.
func (s *QueueService) EnsurePlayer(tx *gorm.DB, playerID int64, ownerID string) (*models.Player, error) {
	var player models.Player
	err := tx.Where("id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.Player{ID: playerID, OwnerID: ownerID}
		if err := tx.Create(&player).Error; err != nil {
			return nil, err
		}
		return &player, nil
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *QueueService) loadSkillXP(tx *gorm.DB, playerID int64) (map[models.Skill]*models.SkillXP, error) {
	var rows []models.SkillXP
	if err := tx.Where("player_id = ?", playerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	bySkill := make(map[models.Skill]*models.SkillXP, len(rows))
	for i := range rows {
		bySkill[rows[i].Skill] = &rows[i]
	}
	return bySkill, nil
}

func xpOf(bySkill map[models.Skill]*models.SkillXP, skill models.Skill) int64 {
	if row, ok := bySkill[skill]; ok {
		return row.XP
	}
	return 0
}

func totalXP(bySkill map[models.Skill]*models.SkillXP) int64 {
	var total int64
	for _, row := range bySkill {
		total = saturatingAdd(total, row.XP)
	}
	return total
}

// settlePlayer walks the queue head-first and settles every unprocessed
// second up to now. With commit=false nothing is written; the returned
// state is exactly what a commit at the same instant would grant.
// Commit mode persists the settled prefix only; the caller mints the
// granted items after the transaction commits.
func (s *QueueService) settlePlayer(tx *gorm.DB, player *models.Player, now int64, commit bool) (*PendingState, error) {
	state := &PendingState{}

	var queue []models.QueuedAction
	if err := tx.Where("player_id = ?", player.ID).Order("slot asc").Find(&queue).Error; err != nil {
		return nil, err
	}

	boost, err := s.Boosts.ActiveBoost(tx, player.ID)
	if err != nil {
		return nil, err
	}

	bySkill, err := s.loadSkillXP(tx, player.ID)
	if err != nil {
		return nil, err
	}
	totalBefore := totalXP(bySkill)
	touched := make(map[models.Skill]bool)

	for i := range queue {
		entry := &queue[i]
		elapsed := entry.ElapsedAt(now)
		if elapsed == 0 {
			// Entries run back to back, so nothing after this
			// one has started either.
			break
		}
		if elapsed <= entry.ProcessedSeconds {
			continue
		}

		action, err := s.Catalog.GetAction(tx, entry.ActionID)
		if err != nil {
			return nil, err
		}
		var choice *models.ActionChoice
		if entry.ChoiceID != 0 {
			choice, err = s.Catalog.GetActionChoice(tx, entry.ChoiceID)
			if err != nil {
				return nil, err
			}
		}

		res := settleSlice(action, choice, boost, entry.StartTime, entry.ProcessedSeconds, elapsed, entry.Timespan)

		for _, gain := range res.XPGains {
			state.addXP(gain.Skill, gain.XP)
			row, ok := bySkill[gain.Skill]
			if !ok {
				row = &models.SkillXP{PlayerID: player.ID, Skill: gain.Skill}
				bySkill[gain.Skill] = row
			}
			row.AddXP(gain.XP)
			touched[gain.Skill] = true
		}
		state.Produced = mergeEquipment(append(state.Produced, res.Produced...))

		if res.NumTickets > 0 {
			if err := s.settleTickets(tx, state, player, entry, action, res.NumTickets, entry.StartTime+elapsed, commit); err != nil {
				return nil, err
			}
		}

		if commit {
			if elapsed >= entry.Timespan {
				if err := tx.Delete(&models.QueuedAction{}, "id = ?", entry.ID).Error; err != nil {
					return nil, err
				}
			} else {
				entry.ProcessedSeconds = elapsed
				if err := tx.Save(entry).Error; err != nil {
					return nil, err
				}
			}
		}
	}

	thresholds, err := s.Catalog.XPThresholds(tx)
	if err != nil {
		return nil, err
	}
	state.ProducedThresholdRewards, err = crossedThresholds(thresholds, totalBefore, totalXP(bySkill))
	if err != nil {
		return nil, err
	}

	if err := s.resolveStoredTickets(tx, state, player, commit); err != nil {
		return nil, err
	}

	if commit {
		for skill := range touched {
			if err := tx.Save(bySkill[skill]).Error; err != nil {
				return nil, err
			}
		}
		if boost.Active() && now >= boost.EndTime() {
			if err := s.Boosts.clearBoost(tx, player.ID); err != nil {
				return nil, err
			}
		}
	}

	return state, nil
}

// settleTickets resolves tickets immediately when the slice's checkpoint
// word is already known, otherwise parks them as a pending ticket.
func (s *QueueService) settleTickets(tx *gorm.DB, state *PendingState, player *models.Player, entry *models.QueuedAction, action *models.Action, numTickets int, sliceEnd int64, commit bool) error {
	word, err := s.Checkpoints.GetRandomWord(tx, sliceEnd)
	if err == nil {
		rewards := resolveTickets(mixWord(word, player.ID), snapshotRandomRewards(action.RandomRewards), numTickets)
		state.ProducedRandomRewards = mergeEquipment(append(state.ProducedRandomRewards, rewards...))
		return nil
	}
	if !errors.Is(err, ErrNoRandomWord) && !errors.Is(err, ErrCheckpointInFuture) && !errors.Is(err, ErrCheckpointTooOld) {
		return err
	}
	if errors.Is(err, ErrCheckpointTooOld) {
		// Too late to ever learn the word. The tickets are forfeit.
		log.Printf("⚠️ Dropping %d expired reward tickets for player %d", numTickets, player.ID)
		return nil
	}

	if !commit {
		// Stored tickets are counted by resolveStoredTickets; a preview
		// stores nothing, so count here instead.
		state.PendingTickets += int64(numTickets)
		return nil
	}
	ticket := models.PendingRandomRewardTicket{
		ID:             uuid.NewString(),
		PlayerID:       player.ID,
		QueuedActionID: entry.ID,
		ActionID:       action.ID,
		NumTickets:     numTickets,
		CheckpointTS:   models.CheckpointOf(sliceEnd),
	}
	if err := ticket.SetRewards(snapshotRandomRewards(action.RandomRewards)); err != nil {
		return err
	}
	return tx.Create(&ticket).Error
}

// resolveStoredTickets drains tickets whose checkpoint word has arrived
// since they were parked.
func (s *QueueService) resolveStoredTickets(tx *gorm.DB, state *PendingState, player *models.Player, commit bool) error {
	var tickets []models.PendingRandomRewardTicket
	if err := tx.Where("player_id = ?", player.ID).Order("checkpoint_ts asc").Find(&tickets).Error; err != nil {
		return err
	}
	for i := range tickets {
		ticket := &tickets[i]
		word, err := s.Checkpoints.GetRandomWord(tx, ticket.CheckpointTS)
		if errors.Is(err, ErrNoRandomWord) || errors.Is(err, ErrCheckpointInFuture) {
			state.PendingTickets += int64(ticket.NumTickets)
			continue
		}
		if errors.Is(err, ErrCheckpointTooOld) {
			log.Printf("⚠️ Dropping expired ticket %s for player %d", ticket.ID, player.ID)
			if commit {
				if err := tx.Delete(&models.PendingRandomRewardTicket{}, "id = ?", ticket.ID).Error; err != nil {
					return err
				}
			}
			continue
		}
		if err != nil {
			return err
		}
		snapshot, err := ticket.Rewards()
		if err != nil {
			return err
		}
		rewards := resolveTickets(mixWord(word, player.ID), snapshot, ticket.NumTickets)
		state.ProducedPastRandomRewards = mergeEquipment(append(state.ProducedPastRandomRewards, rewards...))
		if commit {
			if err := tx.Delete(&models.PendingRandomRewardTicket{}, "id = ?", ticket.ID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// mintGrants pushes settled and calendar rewards to the ledger. It runs
// only after the settlement transaction has committed: the ledger is an
// external service, and a mint that lands inside a transaction that
// later rolls back would be re-settled and paid twice. A mint lost to a
// crash between commit and ledger call stays lost.
func (s *QueueService) mintGrants(ownerID string, state *PendingState, calendarGrants []models.Equipment) error {
	all := append([]models.Equipment{}, state.Produced...)
	all = append(all, state.ProducedThresholdRewards...)
	all = append(all, state.ProducedRandomRewards...)
	all = append(all, state.ProducedPastRandomRewards...)
	all = append(all, calendarGrants...)
	for _, eq := range mergeEquipment(all) {
		if err := s.Ledger.Mint(ownerID, eq.ItemID, eq.Amount); err != nil {
			return fmt.Errorf("failed to mint settled rewards: %w", err)
		}
	}
	return nil
}

func (s *QueueService) validateInput(tx *gorm.DB, bySkill map[models.Skill]*models.SkillXP, input QueuedActionInput) error {
	if input.Timespan <= 0 {
		return ErrZeroTimespan
	}
	action, err := s.Catalog.GetAction(tx, input.ActionID)
	if err != nil {
		return err
	}
	if !action.IsAvailable && !action.IsDynamic {
		return ErrActionNotAvailable
	}
	if xpOf(bySkill, action.Skill) < action.MinXP {
		return ErrMinimumXPNotReached
	}
	if action.HandItemRangeMin > 0 {
		if input.RightHandItemID < action.HandItemRangeMin || input.RightHandItemID > action.HandItemRangeMax {
			return ErrInvalidHandItem
		}
	} else if input.RightHandItemID != 0 {
		return ErrInvalidHandItem
	}
	if input.LeftHandItemID != 0 {
		if action.HandItemRangeMin == 0 || input.LeftHandItemID < action.HandItemRangeMin || input.LeftHandItemID > action.HandItemRangeMax {
			return ErrInvalidHandItem
		}
	}
	if action.ActionChoiceRequired && input.ChoiceID == 0 {
		return ErrActionChoiceRequired
	}
	if input.ChoiceID != 0 {
		choice, err := s.Catalog.GetActionChoice(tx, input.ChoiceID)
		if err != nil {
			return err
		}
		if choice.Skill != "" && xpOf(bySkill, choice.Skill) < choice.MinXP {
			return ErrMinimumXPNotReached
		}
	}
	return nil
}

// StartActions settles whatever the player has accrued, reshapes the
// queue per queueStatus, optionally consumes a boost vial and appends
// the new entries back to back.
func (s *QueueService) StartActions(playerID int64, ownerID string, inputs []QueuedActionInput, boostItemID int64, queueStatus models.QueueStatus) (*PendingState, error) {
	if !queueStatus.IsValid() {
		return nil, ErrInvalidQueueStatus
	}
	now := s.Clock.Now().Unix()

	var state *PendingState
	var calendarGrants []models.Equipment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		player, err := s.EnsurePlayer(tx, playerID, ownerID)
		if err != nil {
			return err
		}

		state, err = s.settlePlayer(tx, player, now, true)
		if err != nil {
			return err
		}

		var kept []models.QueuedAction
		if err := tx.Where("player_id = ?", player.ID).Order("slot asc").Find(&kept).Error; err != nil {
			return err
		}
		switch queueStatus {
		case models.QueueStatusClear:
			if err := tx.Delete(&models.QueuedAction{}, "player_id = ?", player.ID).Error; err != nil {
				return err
			}
			kept = nil
		case models.QueueStatusKeepLastInProgress:
			var head []models.QueuedAction
			for _, entry := range kept {
				if entry.StartTime <= now && now < entry.EndTime() {
					head = append(head, entry)
					break
				}
			}
			if len(head) == 0 {
				if err := tx.Delete(&models.QueuedAction{}, "player_id = ?", player.ID).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Delete(&models.QueuedAction{}, "player_id = ? AND id <> ?", player.ID, head[0].ID).Error; err != nil {
					return err
				}
			}
			kept = head
		}

		// The implicit settle may have removed fully-elapsed entries, so
		// compact the surviving slots before appending after them. Slot
		// is the FIFO order; duplicates would make it ambiguous.
		for i := range kept {
			if kept[i].Slot != i {
				kept[i].Slot = i
				if err := tx.Save(&kept[i]).Error; err != nil {
					return err
				}
			}
		}

		if boostItemID != 0 {
			if err := s.Boosts.StartBoost(tx, player, boostItemID); err != nil {
				return err
			}
		}

		if len(kept)+len(inputs) > MaxQueuedActions {
			return ErrQueueFull
		}

		bySkill, err := s.loadSkillXP(tx, player.ID)
		if err != nil {
			return err
		}

		var totalTime int64
		cursor := now
		for _, entry := range kept {
			remaining := entry.Timespan - entry.ElapsedAt(now)
			totalTime += remaining
			if end := entry.EndTime(); end > cursor {
				cursor = end
			}
		}
		for _, input := range inputs {
			if err := s.validateInput(tx, bySkill, input); err != nil {
				return err
			}
			totalTime += input.Timespan
		}
		if totalTime > MaxQueueTime {
			return ErrQueueTimeExceeded
		}

		for i, input := range inputs {
			entry := models.QueuedAction{
				ID:               uuid.NewString(),
				PlayerID:         player.ID,
				ActionID:         input.ActionID,
				ChoiceID:         input.ChoiceID,
				ChoiceID1:        input.ChoiceID1,
				ChoiceID2:        input.ChoiceID2,
				RegenerateItemID: input.RegenerateItemID,
				RightHandItemID:  input.RightHandItemID,
				LeftHandItemID:   input.LeftHandItemID,
				Slot:             len(kept) + i,
				Timespan:         input.Timespan,
				StartTime:        cursor,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			cursor += input.Timespan
		}

		calendarGrants, err = s.Calendar.Touch(tx, player)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.mintGrants(ownerID, state, calendarGrants); err != nil {
		return nil, err
	}
	return state, nil
}

// ProcessActions commits everything the player has accrued without
// touching the queue shape.
func (s *QueueService) ProcessActions(playerID int64) (*PendingState, error) {
	now := s.Clock.Now().Unix()
	var state *PendingState
	var calendarGrants []models.Equipment
	var owner string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		player, err := s.getPlayer(tx, playerID)
		if err != nil {
			return err
		}
		owner = player.OwnerID
		state, err = s.settlePlayer(tx, player, now, true)
		if err != nil {
			return err
		}
		calendarGrants, err = s.Calendar.Touch(tx, player)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.mintGrants(owner, state, calendarGrants); err != nil {
		return nil, err
	}
	return state, nil
}

// PendingStateOf previews the player's accrued rewards without writing
// anything.
func (s *QueueService) PendingStateOf(playerID int64) (*PendingState, error) {
	now := s.Clock.Now().Unix()
	player, err := s.getPlayer(s.DB, playerID)
	if err != nil {
		return nil, err
	}
	return s.settlePlayer(s.DB, player, now, false)
}

func (s *QueueService) getPlayer(tx *gorm.DB, playerID int64) (*models.Player, error) {
	var player models.Player
	err := tx.Where("id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetActionQueue returns the player's queue ordered by slot.
func (s *QueueService) GetActionQueue(playerID int64) ([]models.QueuedAction, error) {
	var queue []models.QueuedAction
	err := s.DB.Where("player_id = ?", playerID).Order("slot asc").Find(&queue).Error
	return queue, err
}

// GetSkillXP returns the player's per-skill XP totals.
func (s *QueueService) GetSkillXP(playerID int64) ([]models.SkillXP, error) {
	var rows []models.SkillXP
	err := s.DB.Where("player_id = ?", playerID).Order("skill asc").Find(&rows).Error
	return rows, err
}

// GetPendingTickets returns the player's unresolved reward tickets.
func (s *QueueService) GetPendingTickets(playerID int64) ([]models.PendingRandomRewardTicket, error) {
	var tickets []models.PendingRandomRewardTicket
	err := s.DB.Where("player_id = ?", playerID).Order("checkpoint_ts asc").Find(&tickets).Error
	return tickets, err
}
