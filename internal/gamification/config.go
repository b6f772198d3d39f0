package gamification

// XP awarded per action. Review XP (base + rating bonus) is owned by the
// review flow and arrives here as a plain amount.
const (
	XPSetCreated   = 20
	XPAIGeneration = 30
	XPConversation = 25
	XPFriendAdded  = 10
)

// levelThresholds[i] is the minimum total XP for level i+1, up to level 10.
var levelThresholds = []int{
	0,    // Level 1
	100,  // Level 2
	250,  // Level 3
	500,  // Level 4
	1000, // Level 5
	1750, // Level 6
	2750, // Level 7
	4000, // Level 8
	5500, // Level 9
	7500, // Level 10
}

// Past level 10 one level is gained every levelIncrementAfter10 XP.
const levelIncrementAfter10 = 2500

type leagueThreshold struct {
	minXP  int
	league League
}

// Descending; the first entry whose minXP is covered wins.
var leagueThresholds = []leagueThreshold{
	{50000, LeagueDiamond},
	{15000, LeaguePlatinum},
	{5000, LeagueGold},
	{1000, LeagueSilver},
	{0, LeagueBronze},
}
