package catalog

// RewardCategory groups marketplace rewards.
type RewardCategory string

const (
	RewardCosmetic RewardCategory = "cosmetic"
	RewardPowerUp  RewardCategory = "power-up"
	RewardLearning RewardCategory = "learning"
	RewardMerch    RewardCategory = "merch"
)

// Reward is a marketplace item paid for with XP.
type Reward struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Category    RewardCategory `json:"category"`
	XPCost      int            `json:"xpCost"`
}

var rewards = []Reward{
	{ID: "avatar-frame-gold", Name: "Golden Avatar Frame", Description: "A shiny frame around your trainer avatar", Icon: "🖼️", Category: RewardCosmetic, XPCost: 150},
	{ID: "theme-night-city", Name: "Night City Theme", Description: "Neon editor theme for late-night grinding", Icon: "🌃", Category: RewardCosmetic, XPCost: 300},
	{ID: "hint-pack-5", Name: "Hint Pack x5", Description: "Five extra hints for any level", Icon: "💡", Category: RewardPowerUp, XPCost: 100},
	{ID: "streak-freeze", Name: "Streak Freeze", Description: "Keep your streak alive for one missed day", Icon: "🧊", Category: RewardPowerUp, XPCost: 250},
	{ID: "mock-interview", Name: "Mock Interview Session", Description: "A 30 minute mock DSA interview", Icon: "🎤", Category: RewardLearning, XPCost: 1500},
	{ID: "course-graphs-pro", Name: "Graphs Pro Course", Description: "Unlock the advanced graph algorithms course", Icon: "📘", Category: RewardLearning, XPCost: 1000},
	{ID: "sticker-pack", Name: "CodeQuest Sticker Pack", Description: "Laptop stickers shipped to you", Icon: "🏷️", Category: RewardMerch, XPCost: 2000},
	{ID: "hoodie", Name: "CodeQuest Hoodie", Description: "Limited trainer hoodie", Icon: "🧥", Category: RewardMerch, XPCost: 5000},
}

// Rewards returns every marketplace reward.
func Rewards() []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// RewardByID looks up a reward.
func RewardByID(id string) (Reward, bool) {
	for _, r := range rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
