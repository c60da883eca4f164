package factories

import (
	"github.com/dessertly/ordersync/internal/models"
)

type MenuItemFactory struct{}

// FromCatalog materializes the configured catalog entries as store rows,
// filling in generated descriptions where the config left them blank.
func (mf *MenuItemFactory) FromCatalog(catalog []models.MenuItem) []*models.MenuItem {
	items := make([]*models.MenuItem, 0, len(catalog))
	for _, entry := range catalog {
		item := entry
		if item.Description == "" {
			item.Description = fake.Lorem().Sentence(8)
		}
		items = append(items, &item)
	}
	return items
}
