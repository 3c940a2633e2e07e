package models

// Item token ids live on the external ledger; the core only needs a
// handful of well-known ids for calendar rewards and boost vials.
// Ranges group hand items per skill so actions can validate equipment.
const (
	ItemNone int64 = 0

	// Hand item ranges (inclusive)
	WoodcuttingBase int64 = 1000
	WoodcuttingMax  int64 = 1099
	MiningBase      int64 = 1100
	MiningMax       int64 = 1199
	FishingBase     int64 = 1200
	FishingMax      int64 = 1299
	CookingBase     int64 = 1300
	CookingMax      int64 = 1399
	CombatBase      int64 = 2000
	CombatMax       int64 = 2999

	ItemBronzeAxe     int64 = 1001
	ItemBronzePickaxe int64 = 1101
	ItemNet           int64 = 1201
	ItemBronzeSword   int64 = 2001

	// Common produced resources
	ItemLog     int64 = 3101
	ItemOakLog  int64 = 3102
	ItemRawFish int64 = 3103

	// Daily calendar rewards, one per weekday slot.
	ItemCopperOre     int64 = 3001
	ItemCoalOre       int64 = 3002
	ItemRuby          int64 = 3003
	ItemMithrilBar    int64 = 3004
	ItemCookedBowfish int64 = 3005
	ItemLeafFragments int64 = 3006
	ItemHellScroll    int64 = 3007

	// Boost vials
	ItemXPBoost        int64 = 4001
	ItemGatheringBoost int64 = 4002
	ItemCombatBoost    int64 = 4003
	ItemSkillBoost     int64 = 4004
)

// Equipment is an (item, amount) pair, the unit of every grant the
// settlement engine hands to the ledger.
type Equipment struct {
	ItemID int64 `json:"item_id"`
	Amount int64 `json:"amount"`
}
