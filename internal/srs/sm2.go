package srs

import (
	"errors"
	"math"
)

// Rating is the four-way answer a learner gives after flipping a card.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// MinEaseFactor is the SM-2 floor below which the ease factor never drops.
const MinEaseFactor = 1.3

// Seed values for a card that has never been reviewed.
const (
	SeedEaseFactor  = 2.5
	SeedInterval    = 0
	SeedRepetitions = 0
)

var ErrInvalidRating = errors.New("invalid review rating")

// QualityForRating maps a rating to an SM-2 quality value in [0,5].
// A quality of 3 or higher counts as a correct response.
func QualityForRating(r Rating) (int, error) {
	switch r {
	case RatingAgain:
		return 0, nil
	case RatingHard:
		return 3, nil
	case RatingGood:
		return 4, nil
	case RatingEasy:
		return 5, nil
	}
	return 0, ErrInvalidRating
}

type SM2Result struct {
	EaseFactor  float64
	Interval    int
	Repetitions int
}

// CalculateSM2 applies one step of the SM-2 spaced repetition algorithm.
// Inputs are the current scheduling state and the response quality (0-5);
// the caller must validate the quality range before calling. Pure function,
// no storage access.
func CalculateSM2(easeFactor float64, interval, repetitions, quality int) SM2Result {
	newEF := easeFactor + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if newEF < MinEaseFactor {
		newEF = MinEaseFactor
	}

	var newInterval, newRepetitions int
	if quality >= 3 {
		// Correct response
		switch repetitions {
		case 0:
			newInterval = 1
		case 1:
			newInterval = 6
		default:
			newInterval = int(math.Round(float64(interval) * newEF))
		}
		newRepetitions = repetitions + 1
	} else {
		// Incorrect response resets the schedule
		newInterval = 1
		newRepetitions = 0
	}

	return SM2Result{
		EaseFactor:  newEF,
		Interval:    newInterval,
		Repetitions: newRepetitions,
	}
}
