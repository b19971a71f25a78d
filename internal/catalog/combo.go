package catalog

// Combo bonus values. The card data treats these as tunable constants of
// the catalog rather than of individual cards.
const (
	BonusAllSameType      = 30
	BonusAllDifferentType = 25
	BonusHighPower        = 40
	BonusTraitSynergy     = 20
	BonusBalanced         = 25

	// HighPowerThreshold is the minimum base power for the high-power trio.
	HighPowerThreshold = 80
	// BalancedSpread is the widest base-power spread for the balanced combo.
	BalancedSpread = 30
)
