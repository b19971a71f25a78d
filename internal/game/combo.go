package game

import "revreb/internal/catalog"

// comboBonus scores the face-up characters in a player's battle zones.
// Every matching pattern pays out; they stack.
func comboBonus(lineup []*catalog.CardDef) int {
	if len(lineup) < 2 {
		return 0
	}

	types := make(map[string]bool)
	traitHits := make(map[string]int)
	allHighPower := true
	minPower, maxPower := lineup[0].BasePower, lineup[0].BasePower
	for _, def := range lineup {
		types[def.GameType] = true
		for _, trait := range def.Traits {
			traitHits[trait]++
		}
		if def.BasePower < catalog.HighPowerThreshold {
			allHighPower = false
		}
		if def.BasePower < minPower {
			minPower = def.BasePower
		}
		if def.BasePower > maxPower {
			maxPower = def.BasePower
		}
	}

	bonus := 0
	if len(types) == 1 {
		bonus += catalog.BonusAllSameType
	}
	if len(types) == len(lineup) {
		bonus += catalog.BonusAllDifferentType
	}
	if len(lineup) >= 3 && allHighPower {
		bonus += catalog.BonusHighPower
	}
	for _, n := range traitHits {
		if n >= 2 {
			bonus += catalog.BonusTraitSynergy
			break
		}
	}
	if len(lineup) >= 3 && maxPower-minPower <= catalog.BalancedSpread {
		bonus += catalog.BonusBalanced
	}
	return bonus
}
