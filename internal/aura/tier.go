package aura

// Tier thresholds (inclusive lower bounds).
const (
	SilverMin   = 101
	GoldMin     = 301
	PlatinumMin = 751
	DiamondMin  = 1501
)

// Tier is the display badge for an aura total.
type Tier struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	// Max is -1 for the open-ended top tier.
	Max int `json:"max"`
}

// TierFor maps an aura total to its tier.
func TierFor(total int) Tier {
	switch {
	case total >= DiamondMin:
		return Tier{Name: "DIAMOND", Label: "Legendary", Min: DiamondMin, Max: -1}
	case total >= PlatinumMin:
		return Tier{Name: "PLATINUM", Label: "Excellent", Min: PlatinumMin, Max: DiamondMin - 1}
	case total >= GoldMin:
		return Tier{Name: "GOLD", Label: "Reliable", Min: GoldMin, Max: PlatinumMin - 1}
	case total >= SilverMin:
		return Tier{Name: "SILVER", Label: "Trusted", Min: SilverMin, Max: GoldMin - 1}
	default:
		return Tier{Name: "BRONZE", Label: "New User", Min: 0, Max: SilverMin - 1}
	}
}
