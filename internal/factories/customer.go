package factories

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/dessertly/ordersync/internal/models"
)

var fake = faker.New()

type CustomerFactory struct{}

func (cf *CustomerFactory) CreateCustomer() *models.Customer {
	return &models.Customer{
		ID:     cuid.New(),
		Name:   fake.Person().Name(),
		Mobile: generateMobile(),
	}
}

func generateMobile() string {
	// 10-digit Indian mobile, first digit 6-9
	return fmt.Sprintf("%d%09d", 6+rand.Intn(4), rand.Intn(1_000_000_000))
}
