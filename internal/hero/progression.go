package hero

const (
	hpPerLevel      = 10
	attackPerLevel  = 2
	defensePerLevel = 1
)

// GainXP adds experience and applies every level-up it pays for.
// It returns the number of levels gained.
func (h *State) GainXP(amount int) (levels int) {
	if amount <= 0 {
		return 0
	}
	h.XP += amount
	for {
		need := XPForNextLevel(h.Level)
		if h.XP < need {
			break
		}
		h.XP -= need
		h.Level++
		h.MaxHP += hpPerLevel
		h.HP = h.MaxHP
		h.BaseAttack += attackPerLevel
		h.BaseDefense += defensePerLevel
		h.Attack += attackPerLevel
		h.Defense += defensePerLevel
		levels++
	}
	return levels
}

func XPForNextLevel(level int) int {
	return 100 + (level * 15)
}
