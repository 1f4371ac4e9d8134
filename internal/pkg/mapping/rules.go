package mapping

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type listStyle int

const (
	// listJoined renders the projected item values as one separator-joined string.
	listJoined listStyle = iota
	// listRaw keeps the projected item values as an array.
	listRaw
)

// listProjection derives one output field from a list-valued wire field.
type listProjection struct {
	itemField string
	suffix    string
	style     listStyle
	sep       string
}

// fieldRule describes how one wire field maps to output. Fields without a
// rule pass through unchanged.
type fieldRule struct {
	drop      bool
	timestamp bool
	rename    string
	metaData  bool
	lists     []listProjection
	// nullAsEmpty renders a JSON null list as [] instead of null.
	nullAsEmpty bool
}

// applyRules walks the wire object in deterministic key order and emits the
// mapped fields through set.
func applyRules(fields map[string]any, rules map[string]fieldRule, set func(key string, val any)) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		rule, ok := rules[k]
		if !ok {
			set(k, v)
			continue
		}
		switch {
		case rule.drop:
		case rule.metaData:
			obj, _ := v.(map[string]any)
			subKeys := make([]string, 0, len(obj))
			for k2 := range obj {
				subKeys = append(subKeys, k2)
			}
			sort.Strings(subKeys)
			for _, k2 := range subKeys {
				set(k+"_"+snakeCase(k2), obj[k2])
			}
		case rule.timestamp:
			name := k
			if rule.rename != "" {
				name = rule.rename
			}
			set(name, isoOrNil(v))
		case len(rule.lists) > 0:
			for _, p := range rule.lists {
				set(k+p.suffix, projectList(v, p, rule.nullAsEmpty))
			}
		}
	}
}

func projectList(v any, p listProjection, nullAsEmpty bool) any {
	items, ok := v.([]any)
	if !ok {
		if nullAsEmpty {
			return []any{}
		}
		return nil
	}

	if p.style == listRaw {
		out := make([]any, 0, len(items))
		for _, item := range items {
			obj, _ := item.(map[string]any)
			out = append(out, obj[p.itemField])
		}
		return out
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		parts = append(parts, itemString(obj[p.itemField]))
	}
	return strings.Join(parts, p.sep)
}

func itemString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// isoOrNil converts an epoch-seconds value to RFC 3339 UTC, keeping null as
// null.
func isoOrNil(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		secs, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return nil
			}
			secs = int64(f)
		}
		return isoString(secs)
	case int64:
		return isoString(t)
	case float64:
		return isoString(int64(t))
	default:
		return nil
	}
}

func isoString(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format(time.RFC3339)
}

func snakeCase(s string) string {
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	prevLowerOrDigit := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLowerOrDigit && !lastUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
			prevLowerOrDigit = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
			prevLowerOrDigit = true
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			prevLowerOrDigit = false
		}
	}
	return strings.TrimRight(b.String(), "_")
}

var customerRules = map[string]fieldRule{
	"created_at":   {timestamp: true},
	"billing_date": {timestamp: true},
	"updated_at":   {timestamp: true},
	"referral_urls": {
		lists:       []listProjection{{itemField: "referral_sharing_url", style: listRaw}},
		nullAsEmpty: true,
	},
	"contacts": {
		lists:       []listProjection{{itemField: "email", suffix: "_emails", style: listRaw}},
		nullAsEmpty: true,
	},
	"meta_data": {metaData: true},
}

// invoiceDroppedFields are the invoice collections that are not mapped at
// all: they are too granular for profile attributes and event properties.
var invoiceDroppedFields = []string{
	"discounts",
	"taxes",
	"line_item_discounts",
	"line_item_taxes",
	"line_item_tiers",
	"linked_payments",
	"dunning_attempts",
	"applied_credits",
	"adjustment_credit_notes",
	"issued_credit_notes",
}

func buildInvoiceRules(style listStyle) map[string]fieldRule {
	rules := map[string]fieldRule{
		"date":                  {timestamp: true, rename: "invoice_date"},
		"due_date":              {timestamp: true},
		"paid_at":               {timestamp: true},
		"voided_at":             {timestamp: true},
		"updated_at":            {timestamp: true},
		"expected_payment_date": {timestamp: true},
		"line_items": {lists: []listProjection{
			{itemField: "id", suffix: "_ids", style: style, sep: ", "},
			{itemField: "quantity", suffix: "_quantities", style: style, sep: ", "},
			{itemField: "amount", suffix: "_amounts", style: style, sep: ", "},
			{itemField: "description", suffix: "_descriptions", style: style, sep: ", "},
		}},
		// linked_orders ids stay an array even in event properties.
		"linked_orders": {lists: []listProjection{
			{itemField: "id", suffix: "_ids", style: listRaw},
		}},
		"notes": {lists: []listProjection{
			{itemField: "note", style: listJoined, sep: " "},
		}},
	}
	for _, k := range invoiceDroppedFields {
		rules[k] = fieldRule{drop: true}
	}
	return rules
}

func buildSubscriptionRules(style listStyle) map[string]fieldRule {
	rules := map[string]fieldRule{
		"start_date":      {timestamp: true},
		"next_billing_at": {timestamp: true},
		"created_at":      {timestamp: true},
		"started_at":      {timestamp: true},
		"activated_at":    {timestamp: true},
		"pause_date":      {timestamp: true},
		"resume_date":     {timestamp: true},
		"cancelled_at":    {timestamp: true},
		"updated_at":      {timestamp: true},

		"trial_start":        {timestamp: true, rename: "trial_start_date"},
		"trial_end":          {timestamp: true, rename: "trial_end_date"},
		"current_term_start": {timestamp: true, rename: "current_term_start_date"},
		"current_term_end":   {timestamp: true, rename: "current_term_end_date"},
		"due_since":          {timestamp: true, rename: "due_since_date"},

		"addons": {lists: []listProjection{
			{itemField: "id", suffix: "_ids", style: style, sep: ", "},
			{itemField: "quantity", suffix: "_quantities", style: style, sep: ", "},
			{itemField: "unit_price", suffix: "_unit_prices", style: style, sep: ", "},
			{itemField: "amount", suffix: "_amounts", style: style, sep: ", "},
		}},
		"event_based_addons": {lists: []listProjection{
			{itemField: "id", suffix: "_ids", style: style, sep: ", "},
			{itemField: "quantity", suffix: "_quantities", style: style, sep: ", "},
			{itemField: "unit_price", suffix: "_unit_prices", style: style, sep: ", "},
		}},
		"charged_event_based_addons": {lists: []listProjection{
			{itemField: "id", suffix: "_ids", style: style, sep: ", "},
		}},
		"coupons": {lists: []listProjection{
			{itemField: "coupon_id", suffix: "_ids", style: style, sep: ", "},
			{itemField: "coupon_code", suffix: "_codes", style: style, sep: ", "},
		}},
	}
	return rules
}

var (
	invoiceEventRules      = buildInvoiceRules(listJoined)
	invoiceTraitRules      = buildInvoiceRules(listRaw)
	subscriptionEventRules = buildSubscriptionRules(listJoined)
	subscriptionTraitRules = buildSubscriptionRules(listRaw)
)
