package bulk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dessertly/ordersync/internal/models"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	itemSeparator  = ", "
	minFields      = 6
	unknownOutlet  = "UNK"
)

// Parser turns the flat historical export into canonical Order records.
// Malformed lines never abort a parse; they are skipped with a diagnostic.
//
// Ids are reproducible: the same file content always yields the same
// ID/DBID/PaymentType values, so bulk orders can be regenerated on every
// refresh without churning identities.
type Parser struct {
	catalog     map[string]models.MenuItem
	outletCodes map[string]string
	taxRate     float64
	idSeed      string
	log         *logrus.Entry
}

func NewParser(cfg *models.Config) *Parser {
	return &Parser{
		catalog:     cfg.CatalogByName(),
		outletCodes: cfg.OutletCodes,
		taxRate:     cfg.TaxRate,
		idSeed:      cfg.BulkIDSeed,
		log:         logrus.WithField("component", "bulk_parser"),
	}
}

// IsBulkID reports whether a persistence id was minted by this parser, i.e.
// the order has no row in the live store.
func (p *Parser) IsBulkID(dbID string) bool {
	return strings.HasPrefix(dbID, p.idSeed+"-")
}

// Parse converts the raw file content into orders. Line 0 is a header and
// always skipped; blank lines are ignored.
func (p *Parser) Parse(content string) []models.Order {
	lines := strings.Split(content, "\n")

	var orders []models.Order
	for i := 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		order, ok := p.parseLine(line, i)
		if !ok {
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

func (p *Parser) parseLine(line string, index int) (models.Order, bool) {
	fields := tokenize(line)
	if len(fields) < minFields {
		p.log.WithFields(logrus.Fields{"line": index, "fields": len(fields)}).
			Warn("skipping line with too few fields")
		return models.Order{}, false
	}

	name := strings.TrimSpace(fields[0])
	mobile := strings.TrimSpace(fields[1])
	outlet := strings.TrimSpace(fields[2])
	dateStr := strings.TrimSpace(fields[3])
	itemList := strings.TrimSpace(fields[4])
	totalStr := strings.TrimSpace(fields[5])

	if name == "" || mobile == "" || outlet == "" || dateStr == "" || itemList == "" {
		p.log.WithField("line", index).Warn("skipping line with empty required field")
		return models.Order{}, false
	}

	placedAt, err := time.Parse(dateTimeLayout, dateStr)
	if err != nil {
		p.log.WithFields(logrus.Fields{"line": index, "datetime": dateStr}).
			Warn("skipping line with unparseable datetime")
		return models.Order{}, false
	}

	items := p.resolveItems(itemList, index)
	if len(items) == 0 {
		p.log.WithField("line", index).Warn("skipping line with no resolvable items")
		return models.Order{}, false
	}

	order := models.Order{
		ID:          fmt.Sprintf("%s-%d-%d", p.outletCode(outlet), placedAt.UnixMilli(), index),
		DBID:        fmt.Sprintf("%s-%d", p.idSeed, index),
		Customer:    models.Customer{Name: name, Mobile: mobile},
		Items:       items,
		PaymentType: PaymentTypeFor(name),
		Timestamp:   placedAt,
		Status:      models.OrderStatusCompleted,
		Outlet:      outlet,
	}

	// The file's own total column is read but not trusted; money is always
	// recomputed from current catalog prices at the fixed tax rate.
	models.ComputeTotals(&order, nil, p.taxRate)
	if fileTotal, err := strconv.ParseFloat(totalStr, 64); err == nil && fileTotal != order.Total {
		p.log.WithFields(logrus.Fields{"line": index, "file_total": fileTotal, "computed": order.Total}).
			Debug("recomputed total differs from file total")
	}

	return order, true
}

// resolveItems maps the ", "-joined item names onto catalog snapshots.
// Unknown names are dropped; duplicate names coalesce into a higher quantity
// since the format has no quantity column.
func (p *Parser) resolveItems(itemList string, index int) []models.OrderItem {
	var items []models.OrderItem
	seen := make(map[string]int)

	for _, rawName := range strings.Split(itemList, itemSeparator) {
		itemName := strings.TrimSpace(rawName)
		if itemName == "" {
			continue
		}
		menuItem, ok := p.catalog[itemName]
		if !ok {
			p.log.WithFields(logrus.Fields{"line": index, "item": itemName}).
				Warn("dropping unknown catalog item")
			continue
		}
		if at, dup := seen[itemName]; dup {
			items[at].Quantity++
			continue
		}
		seen[itemName] = len(items)
		items = append(items, models.OrderItem{Item: menuItem, Quantity: 1})
	}
	return items
}

func (p *Parser) outletCode(outlet string) string {
	if code, ok := p.outletCodes[outlet]; ok {
		return code
	}
	return unknownOutlet
}

// PaymentTypeFor derives a payment type from a customer name: the sum of the
// name's character codes modulo the fixed {cash, card, upi} ordering. The
// source data carries no payment column, so the derivation must be stable
// across reloads for the same name.
func PaymentTypeFor(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return models.PaymentTypes[sum%len(models.PaymentTypes)]
}

// tokenize splits a line on commas, honoring double-quote-delimited fields
// that may contain commas. A quote toggles quoted mode; inside it the
// separator is literal text. This is a minimal dialect: no escaped quotes,
// no multi-line fields.
func tokenize(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}
