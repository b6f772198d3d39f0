package srs

// XPReviewBase is awarded for every submitted review.
const XPReviewBase = 10

// ReviewXP returns the XP a review is worth for the given rating.
func ReviewXP(r Rating) int {
	bonus := 0
	switch r {
	case RatingHard:
		bonus = 5
	case RatingGood:
		bonus = 10
	case RatingEasy:
		bonus = 15
	}
	return XPReviewBase + bonus
}
