package models

// Group is a party of travelers that arrives together and is served as one unit.
type Group struct {
	ID       string `json:"id"`
	Adults   int    `json:"adults"`   // at least 1
	Children int    `json:"children"` // usually 0
	Domestic bool   `json:"domestic"` // citizen, served at the single rate
}

// ProcessingTime estimates how many minutes an agent needs for the group.
func (g *Group) ProcessingTime() int {
	// one minute per adult
	minutes := g.Adults

	// foreign adults take twice as long
	if !g.Domestic {
		minutes *= 2
	}

	// half a minute per child, rounded up
	minutes += (1 + g.Children) / 2

	return minutes
}
