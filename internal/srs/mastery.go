package srs

// NextMasteryLevel moves the mastery level one step up on a correct answer
// and one step down on an incorrect one, clamped to 0..5.
func NextMasteryLevel(level int, isCorrect bool) int {
	if isCorrect {
		if level >= MaxMasteryLevel {
			return MaxMasteryLevel
		}
		return level + 1
	}
	if level <= 0 {
		return 0
	}
	return level - 1
}

// NextCorrectStreak extends the streak on a correct answer and resets it
// to zero on an incorrect one.
func NextCorrectStreak(streak int, isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	return streak + 1
}

// NextWrongCount increments the cumulative wrong count on an incorrect
// answer and leaves it unchanged otherwise.
func NextWrongCount(count int, isCorrect bool) int {
	if isCorrect {
		return count
	}
	return count + 1
}

// IsActiveForLevel reports whether a question at the given mastery level
// still belongs in review queues. Level 5 means mastered and retired.
func IsActiveForLevel(level int) bool {
	return level < MaxMasteryLevel
}
