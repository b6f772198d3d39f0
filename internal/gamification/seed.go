package gamification

import (
	"log"

	"gorm.io/gorm"
)

type conditionKey struct {
	kind      ConditionKind
	threshold int
}

var achievementCatalog = []Achievement{
	// cards_learned
	{ConditionKind: CondCardsLearned, ConditionThreshold: 10, Title: "First Steps", Description: "Learn your first 10 cards", XpReward: 50},
	{ConditionKind: CondCardsLearned, ConditionThreshold: 50, Title: "Getting Serious", Description: "Learn 50 cards", XpReward: 100},
	{ConditionKind: CondCardsLearned, ConditionThreshold: 100, Title: "Centurion", Description: "Learn 100 cards", XpReward: 200},
	{ConditionKind: CondCardsLearned, ConditionThreshold: 500, Title: "Word Collector", Description: "Learn 500 cards", XpReward: 500},
	{ConditionKind: CondCardsLearned, ConditionThreshold: 1000, Title: "Lexicon Master", Description: "Learn 1000 cards", XpReward: 1000},
	// streak_days
	{ConditionKind: CondStreakDays, ConditionThreshold: 3, Title: "Three in a Row", Description: "Maintain a 3-day streak", XpReward: 30},
	{ConditionKind: CondStreakDays, ConditionThreshold: 7, Title: "Week Warrior", Description: "Maintain a 7-day streak", XpReward: 75},
	{ConditionKind: CondStreakDays, ConditionThreshold: 14, Title: "Two Weeks Strong", Description: "Maintain a 14-day streak", XpReward: 150},
	{ConditionKind: CondStreakDays, ConditionThreshold: 30, Title: "Monthly Dedication", Description: "Maintain a 30-day streak", XpReward: 300},
	{ConditionKind: CondStreakDays, ConditionThreshold: 100, Title: "Unstoppable", Description: "Maintain a 100-day streak", XpReward: 1000},
	// xp_earned
	{ConditionKind: CondXpEarned, ConditionThreshold: 100, Title: "First Hundred", Description: "Earn 100 XP", XpReward: 25},
	{ConditionKind: CondXpEarned, ConditionThreshold: 500, Title: "Rising Star", Description: "Earn 500 XP", XpReward: 50},
	{ConditionKind: CondXpEarned, ConditionThreshold: 1000, Title: "XP Hunter", Description: "Earn 1000 XP", XpReward: 100},
	{ConditionKind: CondXpEarned, ConditionThreshold: 5000, Title: "XP Veteran", Description: "Earn 5000 XP", XpReward: 250},
	{ConditionKind: CondXpEarned, ConditionThreshold: 10000, Title: "XP Legend", Description: "Earn 10000 XP", XpReward: 500},
	// sets_created
	{ConditionKind: CondSetsCreated, ConditionThreshold: 1, Title: "Set Builder", Description: "Create your first card set", XpReward: 25},
	{ConditionKind: CondSetsCreated, ConditionThreshold: 5, Title: "Collection Starter", Description: "Create 5 card sets", XpReward: 75},
	{ConditionKind: CondSetsCreated, ConditionThreshold: 10, Title: "Curator", Description: "Create 10 card sets", XpReward: 150},
	{ConditionKind: CondSetsCreated, ConditionThreshold: 25, Title: "Library Architect", Description: "Create 25 card sets", XpReward: 300},
	// perfect_reviews
	{ConditionKind: CondPerfectReviews, ConditionThreshold: 10, Title: "Sharp Mind", Description: "Get 10 correct reviews", XpReward: 50},
	{ConditionKind: CondPerfectReviews, ConditionThreshold: 50, Title: "Perfectionist", Description: "Get 50 correct reviews", XpReward: 150},
	{ConditionKind: CondPerfectReviews, ConditionThreshold: 100, Title: "Flawless", Description: "Get 100 correct reviews", XpReward: 300},
	// conversations
	{ConditionKind: CondConversations, ConditionThreshold: 1, Title: "First Chat", Description: "Complete your first AI conversation", XpReward: 50},
	{ConditionKind: CondConversations, ConditionThreshold: 5, Title: "Chatty", Description: "Complete 5 AI conversations", XpReward: 100},
	{ConditionKind: CondConversations, ConditionThreshold: 25, Title: "Conversation Pro", Description: "Complete 25 AI conversations", XpReward: 250},
	{ConditionKind: CondConversations, ConditionThreshold: 100, Title: "Social Butterfly", Description: "Complete 100 AI conversations", XpReward: 500},
	// friends_count
	{ConditionKind: CondFriendsCount, ConditionThreshold: 1, Title: "First Friend", Description: "Add your first friend", XpReward: 25},
	{ConditionKind: CondFriendsCount, ConditionThreshold: 5, Title: "Social Network", Description: "Add 5 friends", XpReward: 75},
	{ConditionKind: CondFriendsCount, ConditionThreshold: 10, Title: "Popular", Description: "Add 10 friends", XpReward: 150},
}

// SeedAchievements inserts the static catalog, keyed by (condition kind,
// threshold) so re-running at every startup is a no-op for existing entries.
func SeedAchievements(gdb *gorm.DB) error {
	var existing []Achievement
	if err := gdb.Find(&existing).Error; err != nil {
		return err
	}
	existingKeys := make(map[conditionKey]bool, len(existing))
	for _, a := range existing {
		existingKeys[conditionKey{a.ConditionKind, a.ConditionThreshold}] = true
	}

	added := 0
	for _, a := range achievementCatalog {
		if existingKeys[conditionKey{a.ConditionKind, a.ConditionThreshold}] {
			continue
		}
		entry := a
		if err := gdb.Create(&entry).Error; err != nil {
			return err
		}
		added++
	}

	if added > 0 {
		log.Printf("[Gamification] seeded %d new achievements", added)
	}
	return nil
}
