package hero

// QuestKillMonster is the only quest type: defeat a named monster.
const QuestKillMonster = "kill_monster"

// Quest is one entry of the hero's quest log. ID is assigned at creation and
// is the only identity used for removal.
type Quest struct {
	ID          string `json:"id"`
	Type        string `json:"quest_type"`
	Target      string `json:"target"`
	Biome       string `json:"biome"`
	RewardXP    int    `json:"reward_xp"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
