package models

// Rank is the collector rank derived from collection size.
type Rank struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// rankTier maps a minimum card count to a rank. Tiers are checked from
// highest threshold down, so order matters.
type rankTier struct {
	minCards int
	rank     Rank
}

var rankTiers = []rankTier{
	{500, Rank{Name: "Pokemon Master", Icon: "👑"}},
	{250, Rank{Name: "League Champion", Icon: "🏆"}},
	{100, Rank{Name: "Gym Leader", Icon: "⚡"}},
	{50, Rank{Name: "Expert Trainer", Icon: "🎯"}},
	{20, Rank{Name: "Advanced Trainer", Icon: "🔥"}},
	{10, Rank{Name: "Intermediate Trainer", Icon: "✨"}},
	{5, Rank{Name: "Junior Trainer", Icon: "🌟"}},
	{0, Rank{Name: "Rookie", Icon: "🎒"}},
}

// RankForCount returns the rank earned at the given collection size.
func RankForCount(cardCount int) Rank {
	for _, tier := range rankTiers {
		if cardCount >= tier.minCards {
			return tier.rank
		}
	}
	return rankTiers[len(rankTiers)-1].rank
}
