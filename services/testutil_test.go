package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"action-quest-system/models"

	"github.com/glebarez/sqlite"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testBase is midnight UTC on a checkpoint boundary.
const testBase = int64(1700006400)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Player{},
		&models.SkillXP{},
		&models.Action{},
		&models.GuaranteedReward{},
		&models.RandomReward{},
		&models.ActionChoice{},
		&models.QueuedAction{},
		&models.BoostItem{},
		&models.ActiveBoost{},
		&models.Checkpoint{},
		&models.PendingRandomRewardTicket{},
		&models.XPThresholdReward{},
		&models.PlayerCalendar{},
		&models.GameSetting{},
	))
	return db
}

type fakeOracle struct {
	requests int
}

func (f *fakeOracle) RequestRandomWords(checkpoint int64) (string, error) {
	f.requests++
	return fmt.Sprintf("req-%d", f.requests), nil
}

type testEnv struct {
	db          *gorm.DB
	clock       *clockwork.FakeClock
	ledger      *MemoryLedger
	oracle      *fakeOracle
	catalog     *CatalogService
	boosts      *BoostService
	checkpoints *CheckpointService
	calendar    *CalendarService
	queue       *QueueService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Unix(testBase, 0).UTC())
	ledger := NewMemoryLedger()
	oracle := &fakeOracle{}

	catalog := NewCatalogService(db, nil)
	boosts := NewBoostService(db, clock, ledger)
	checkpoints := NewCheckpointService(db, clock, oracle)
	calendar := NewCalendarService(db, clock)
	queue := NewQueueService(db, clock, ledger, catalog, boosts, checkpoints, calendar)

	return &testEnv{
		db:          db,
		clock:       clock,
		ledger:      ledger,
		oracle:      oracle,
		catalog:     catalog,
		boosts:      boosts,
		checkpoints: checkpoints,
		calendar:    calendar,
		queue:       queue,
	}
}

func (e *testEnv) now() int64 {
	return e.clock.Now().Unix()
}

func (e *testEnv) player(t *testing.T, id int64) *models.Player {
	t.Helper()
	player, err := e.queue.EnsurePlayer(e.db, id, fmt.Sprintf("owner-%d", id))
	require.NoError(t, err)
	return player
}

func (e *testEnv) balance(t *testing.T, owner string, itemID int64) int64 {
	t.Helper()
	bal, err := e.ledger.BalanceOf(owner, itemID)
	require.NoError(t, err)
	return bal
}

// A plain hour-long woodcutting action: 3600 XP/hour, one log per six
// minutes.
func woodcuttingInput(actionID int64) *ActionInput {
	return &ActionInput{
		ActionID:    actionID,
		Name:        fmt.Sprintf("Chop Oak %d", actionID),
		Skill:       models.SkillWoodcutting,
		XPPerHour:   3600,
		IsAvailable: true,
		GuaranteedRewards: []RewardInput{
			{ItemID: models.ItemLog, Rate: 100},
		},
	}
}

func (e *testEnv) addAction(t *testing.T, in *ActionInput) *models.Action {
	t.Helper()
	action, err := e.catalog.AddAction(in)
	require.NoError(t, err)
	return action
}
