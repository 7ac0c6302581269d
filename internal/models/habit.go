// ABOUTME: Habit catalog for the 30-day challenge
// ABOUTME: Fixed, ordered habit identifiers with their display labels
package models

// Habit is one entry in the catalog
type Habit struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// NoHabit is shown in place of a best habit when nothing has been recorded
const NoHabit = "-"

// Catalog is an ordered, read-only list of habits.
// Every DayRecord's Habits slice is index-aligned with it.
type Catalog struct {
	habits []Habit
	index  map[string]int
}

// NewCatalog builds a catalog preserving the given order
func NewCatalog(habits []Habit) *Catalog {
	c := &Catalog{
		habits: make([]Habit, len(habits)),
		index:  make(map[string]int, len(habits)),
	}
	copy(c.habits, habits)
	for i, h := range habits {
		c.index[h.ID] = i
	}
	return c
}

var defaultCatalog = NewCatalog([]Habit{
	{ID: "training", Label: "Training"},
	{ID: "no-games", Label: "No Games"},
	{ID: "no-social-media", Label: "No Social Media"},
	{ID: "purity", Label: "Purity"},
	{ID: "prayer", Label: "Prayer"},
	{ID: "reading", Label: "Reading"},
	{ID: "fasting", Label: "Fasting"},
	{ID: "water", Label: "Water"},
	{ID: "sleep", Label: "Sleep"},
})

// DefaultCatalog returns the process-wide habit catalog
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Len returns the number of habits
func (c *Catalog) Len() int {
	return len(c.habits)
}

// Habits returns a copy of the catalog entries in canonical order
func (c *Catalog) Habits() []Habit {
	out := make([]Habit, len(c.habits))
	copy(out, c.habits)
	return out
}

// IDs returns habit identifiers in canonical order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.habits))
	for i, h := range c.habits {
		ids[i] = h.ID
	}
	return ids
}

// At returns the habit at position i
func (c *Catalog) At(i int) Habit {
	return c.habits[i]
}

// IndexOf returns the position of id, or -1 if unknown
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Label returns the display label for id, or NoHabit if unknown
func (c *Catalog) Label(id string) string {
	if i := c.IndexOf(id); i >= 0 {
		return c.habits[i].Label
	}
	return NoHabit
}
