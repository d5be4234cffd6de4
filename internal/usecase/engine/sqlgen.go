package engine

import (
	"fmt"
	"strings"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Result caps for open-ended query shapes.
const (
	popularityLimit = 10
	detailLimit     = 50
)

// predicateBuilder composes AND-conjoined predicates with positional
// parameter binding. User-derived values are never spliced into the
// query text.
type predicateBuilder struct {
	conds []string
	args  []any
}

func (b *predicateBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *predicateBuilder) equals(column string, v any) {
	b.conds = append(b.conds, fmt.Sprintf("%s = %s", column, b.bind(v)))
}

func (b *predicateBuilder) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}
	b.conds = append(b.conds, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
}

// where renders the conjunction, degenerating to an always-true
// predicate when no condition was added.
func (b *predicateBuilder) where() string {
	if len(b.conds) == 0 {
		return "1=1"
	}
	return strings.Join(b.conds, " AND ")
}

// OrderLookupQuery is the exact-match short-circuit lookup: full order
// detail for one identifier, tenant-scoped when a tenant is given.
func OrderLookupQuery(orderID string, userID *int64) domain.Query {
	b := &predicateBuilder{}
	b.equals("i.order_id", orderID)
	if userID != nil {
		b.equals("i.user_id", *userID)
	}

	text := fmt.Sprintf(
		`SELECT i.order_id, i.contact_name, i.invoice_date, i.total_price, li.product_name, li.quantity, li.unit_price
FROM invoices i
LEFT JOIN line_items li ON i.id = li.invoice_id
WHERE %s
ORDER BY li.id`, b.where())

	return domain.Query{Text: text, Args: b.args}
}

// Query shapes, checked in priority order; the first keyword family that
// matches wins. Questions matching none fall through to the detail
// listing.
var queryShapes = []struct {
	name     string
	keywords []string
}{
	{"count", []string{"how many orders", "count orders"}},
	{"spend", []string{"total spent", "how much", "total amount"}},
	{"popularity", []string{"most ordered", "popular product", "top product"}},
}

// BuildQuery synthesizes a structured query from the question and the
// filter context. Identical (question, filters, tenant) inputs always
// yield the identical query text: filter sets are applied in sorted
// order.
func BuildQuery(question string, filters *domain.FilterContext, userID *int64) domain.Query {
	b := &predicateBuilder{}
	if userID != nil {
		b.equals("i.user_id", *userID)
	}

	hasCustomers := false
	if filters != nil {
		if customers := filters.SortedCustomers(); len(customers) > 0 {
			b.in("i.contact_name", customers)
			hasCustomers = true
		}
		b.in("i.order_id", filters.SortedOrderIDs())
	}
	where := b.where()

	lower := strings.ToLower(question)
	shape := "detail"
	for _, s := range queryShapes {
		if containsAny(lower, s.keywords) {
			shape = s.name
			break
		}
	}

	var text string
	switch shape {
	case "count":
		if hasCustomers {
			text = fmt.Sprintf(
				`SELECT i.contact_name, COUNT(DISTINCT i.order_id) AS order_count
FROM invoices i
WHERE %s
GROUP BY i.contact_name
ORDER BY order_count DESC`, where)
		} else {
			text = fmt.Sprintf(
				`SELECT COUNT(DISTINCT i.order_id) AS order_count, COUNT(DISTINCT i.contact_name) AS customer_count
FROM invoices i
WHERE %s`, where)
		}

	case "spend":
		text = fmt.Sprintf(
			`SELECT i.contact_name, SUM(i.total_price) AS total_spent, COUNT(i.order_id) AS order_count
FROM invoices i
WHERE %s
GROUP BY i.contact_name
ORDER BY total_spent DESC`, where)

	case "popularity":
		text = fmt.Sprintf(
			`SELECT li.product_name, SUM(li.quantity) AS total_quantity, COUNT(DISTINCT i.order_id) AS order_count
FROM invoices i
JOIN line_items li ON i.id = li.invoice_id
WHERE %s
GROUP BY li.product_name
ORDER BY total_quantity DESC
LIMIT %d`, where, popularityLimit)

	default:
		text = fmt.Sprintf(
			`SELECT i.order_id, i.contact_name, i.invoice_date, i.total_price, li.product_name, li.quantity, li.unit_price
FROM invoices i
LEFT JOIN line_items li ON i.id = li.invoice_id
WHERE %s
ORDER BY i.invoice_date DESC
LIMIT %d`, where, detailLimit)
	}

	return domain.Query{Text: text, Args: b.args}
}
