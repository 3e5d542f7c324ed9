package engine

const (
	// LevelXPStep scales the experience threshold: a level-L character levels up at L*100 XP.
	LevelXPStep = 100

	// StartingLevel is the level of every freshly created character.
	StartingLevel = 1
)

// XPThresholdForLevel returns the experience at which a character of the given
// level advances to the next one.
func XPThresholdForLevel(level int) int {
	if level < StartingLevel {
		level = StartingLevel
	}
	return level * LevelXPStep
}

// GainExperience adds amount to the character's experience and advances at most
// one level. The threshold is checked once per call, so a large award never
// cascades through several levels.
func (c *Character) GainExperience(amount int) {
	if amount <= 0 {
		return
	}
	c.Experience += amount
	if c.Experience >= XPThresholdForLevel(c.Level) {
		c.Level++
	}
}
