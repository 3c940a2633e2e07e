package models

// Skill identifies a progression track. Combat skills share a derived
// health sub-skill; everything else levels independently.
type Skill string

const (
	SkillNone        Skill = "none"
	SkillWoodcutting Skill = "woodcutting"
	SkillMining      Skill = "mining"
	SkillFishing     Skill = "fishing"
	SkillCooking     Skill = "cooking"
	SkillSmithing    Skill = "smithing"
	SkillCrafting    Skill = "crafting"
	SkillFiremaking  Skill = "firemaking"
	SkillMelee       Skill = "melee"
	SkillMagic       Skill = "magic"
	SkillRanged      Skill = "ranged"
	SkillDefence     Skill = "defence"
	SkillHealth      Skill = "health"
)

var combatSkills = map[Skill]bool{
	SkillMelee:   true,
	SkillMagic:   true,
	SkillRanged:  true,
	SkillDefence: true,
	SkillHealth:  true,
}

func (s Skill) IsCombat() bool {
	return combatSkills[s]
}

// IsValid reports whether s is one of the defined skills (excluding none).
func (s Skill) IsValid() bool {
	switch s {
	case SkillWoodcutting, SkillMining, SkillFishing, SkillCooking,
		SkillSmithing, SkillCrafting, SkillFiremaking,
		SkillMelee, SkillMagic, SkillRanged, SkillDefence, SkillHealth:
		return true
	}
	return false
}
