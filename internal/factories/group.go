package factories

import (
	"math/rand"

	"github.com/chrisdamba/customsim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// GroupFactory creates traveler groups with values that roughly approximate
// what a customs hall sees.
type GroupFactory struct {
	fake faker.Faker
}

func NewGroupFactory(src rand.Source) *GroupFactory {
	return &GroupFactory{fake: faker.NewWithSeed(src)}
}

func (gf *GroupFactory) CreateGroup() *models.Group {
	// children: usually 0, occasionally several
	children := gf.fake.IntBetween(0, 3) + gf.fake.IntBetween(0, 3) - 2
	if children < 0 {
		children = 0
	}

	return &models.Group{
		ID:       cuid.New(),
		Adults:   gf.fake.IntBetween(1, 3),
		Children: children,
		// citizens 80% of the time
		Domestic: gf.fake.IntBetween(0, 4) != 0,
	}
}
