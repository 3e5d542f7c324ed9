package engine

import "github.com/google/uuid"

// Character is a collectible companion that can be owned, leveled, killed and revived.
type Character struct {
	ID         string
	Name       string
	Slug       string
	Price      int
	IsFree     bool
	IsOwned    bool
	Status     CharacterStatus
	Level      int
	Experience int
}

// NewCharacter builds an ALIVE level-1 character. Free characters are owned from the start.
func NewCharacter(name string, slug string, price int, free bool) *Character {
	if free {
		price = 0
	}
	return &Character{
		ID:      uuid.NewString(),
		Name:    name,
		Slug:    slug,
		Price:   price,
		IsFree:  free,
		IsOwned: free,
		Status:  CharacterAlive,
		Level:   StartingLevel,
	}
}

func (c *Character) IsAlive() bool {
	return c.Status == CharacterAlive
}

func (c *Character) Kill() {
	c.Status = CharacterDead
}

func (c *Character) Revive() {
	c.Status = CharacterAlive
}

// DefaultRoster returns the starter companion followed by the shop characters.
func DefaultRoster() []*Character {
	return []*Character{
		NewCharacter("Starter Pet", "starter_pet", 0, true),
		NewCharacter("Dragon", "dragon", 100, false),
		NewCharacter("Phoenix", "phoenix", 150, false),
		NewCharacter("Unicorn", "unicorn", 200, false),
		NewCharacter("Griffin", "griffin", 250, false),
	}
}
