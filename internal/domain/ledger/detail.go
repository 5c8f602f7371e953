package ledger

import (
	"regexp"
	"strconv"
	"strings"
)

// DetailSeparator introduces the human-readable sub-ledger in sales descriptions.
const DetailSeparator = "Detail: "

const itemQtyMarker = " x"

// FormatDetail renders line items as "Americano x2, Kopi Susu x1".
// Zero-quantity items are omitted.
func FormatDetail(items []LineItem) string {
	parts := make([]string, 0, len(items))
	for _, li := range items {
		if li.Qty <= 0 {
			continue
		}
		parts = append(parts, li.Name+itemQtyMarker+strconv.FormatInt(li.Qty, 10))
	}
	return strings.Join(parts, ", ")
}

// ParseDetail recovers line items from text following the last "Detail: ".
// Each comma-separated token is "<name> x<qty>" where the name is everything
// before the last " x". Tokens that do not parse are skipped.
func ParseDetail(description string) []LineItem {
	idx := strings.LastIndex(description, DetailSeparator)
	if idx < 0 {
		return nil
	}
	body := description[idx+len(DetailSeparator):]

	var items []LineItem
	for _, token := range strings.Split(body, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		li, ok := parseItemToken(token)
		if !ok {
			continue
		}
		items = append(items, li)
	}
	return items
}

func parseItemToken(token string) (LineItem, bool) {
	cut := strings.LastIndex(token, itemQtyMarker)
	if cut <= 0 {
		return LineItem{}, false
	}
	name := strings.TrimSpace(token[:cut])
	qty, err := strconv.ParseInt(strings.TrimSpace(token[cut+len(itemQtyMarker):]), 10, 64)
	if err != nil || qty < 0 || name == "" {
		return LineItem{}, false
	}
	return LineItem{Name: name, Qty: qty}, true
}

var (
	bookPrefix    = regexp.MustCompile(`^Belanja .*?: `)
	trailingParen = regexp.MustCompile(`\s\(.*\)$`)
	buyPrefix     = regexp.MustCompile(`^Beli `)
)

// CleanItemName strips the encoder/bookkeeping wrappers from an expense
// description: "Belanja Produksi: SKM (2x12000)" and "Beli SKM (Rider 1)" both become "SKM".
func CleanItemName(description string) string {
	s := bookPrefix.ReplaceAllString(description, "")
	s = trailingParen.ReplaceAllString(s, "")
	s = buyPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
