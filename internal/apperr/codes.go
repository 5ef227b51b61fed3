// Package apperr provides coded domain errors for game rule rejections.
package apperr

// Code is a machine-readable rejection reason.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Hero
	CodeInsufficientGold Code = "INSUFFICIENT_GOLD"
	CodeLevelTooLow      Code = "LEVEL_TOO_LOW"
	CodeClassMismatch    Code = "CLASS_MISMATCH"
	CodeHeroDefeated     Code = "HERO_DEFEATED"

	// Shop and inventory
	CodeItemNotFound    Code = "ITEM_NOT_FOUND"
	CodeItemNotOwned    Code = "ITEM_NOT_OWNED"
	CodeItemEquipped    Code = "ITEM_EQUIPPED"
	CodeNoPotion        Code = "NO_POTION"
	CodeAlreadyFullHP   Code = "ALREADY_FULL_HP"
	CodeNoItemEquipped  Code = "NO_ITEM_EQUIPPED"
	CodeInvalidSlot     Code = "INVALID_SLOT"
	CodeInvalidQuantity Code = "INVALID_QTY"

	// Equipment enhancement
	CodeMaxUpgradeLevel       Code = "MAX_UPGRADE_LEVEL"
	CodeEnchantmentNotFound   Code = "ENCHANTMENT_NOT_FOUND"
	CodeEnchantmentWrongSlot  Code = "ENCHANTMENT_WRONG_SLOT"
	CodeEnchantmentDuplicated Code = "ENCHANTMENT_ALREADY_APPLIED"
	CodeGemNotFound           Code = "GEM_NOT_FOUND"

	// Crafting
	CodeRecipeNotFound        Code = "RECIPE_NOT_FOUND"
	CodeInsufficientMaterials Code = "INSUFFICIENT_MATERIALS"
	CodeRecipeOutputInvalid   Code = "RECIPE_OUTPUT_INVALID"

	// Quests
	CodeQuestNotFound       Code = "QUEST_NOT_FOUND"
	CodeQuestDuplicate      Code = "QUEST_DUPLICATE_TARGET"
	CodeQuestLogFull        Code = "QUEST_LOG_FULL"
	CodeNoQuestsAvailable   Code = "NO_QUESTS_AVAILABLE"
	CodeMonsterNotFound     Code = "MONSTER_NOT_FOUND"
	CodeBiomeNotFound       Code = "BIOME_NOT_FOUND"
	CodeNoMonstersAvailable Code = "NO_MONSTERS_AVAILABLE"
)
