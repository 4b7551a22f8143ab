// Package codegen prints features and plans as autumn.config.ts source.
package codegen

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/atmn/internal/shape"
)

// keyOrder fixes the position of every known key inside printed objects.
// Unknown keys follow in alphabetical order.
var keyOrder = []string{
	"id", "name", "description", "type", "consumable",
	"credit_schema", "metered_feature_id", "credit_cost",
	"group", "add_on", "auto_enable",
	"feature_id", "included", "unlimited", "reset",
	"price", "amount", "tiers", "to", "interval", "interval_count",
	"billing_units", "billing_method", "max_purchase",
	"features", "proration", "on_increase", "on_decrease",
	"rollover", "max", "expiry_duration_type", "expiry_duration_length",
	"free_trial", "duration_length", "duration_type", "card_required",
}

var keyRank = func() map[string]int {
	rank := make(map[string]int, len(keyOrder))
	for i, key := range keyOrder {
		rank[key] = i
	}
	return rank
}()

var bareKey = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

type printer struct {
	sb strings.Builder
}

func (p *printer) value(v any, depth int) error {
	switch value := v.(type) {
	case nil:
		p.sb.WriteString("null")
	case bool:
		fmt.Fprintf(&p.sb, "%t", value)
	case string:
		p.sb.WriteString(quote(value))
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("cannot print number %v", value)
		}
		p.sb.WriteString(decimal.NewFromFloat(value).String())
	case int:
		p.sb.WriteString(decimal.NewFromInt(int64(value)).String())
	case shape.Object:
		return p.object(value, depth)
	case []any:
		return p.array(value, depth)
	default:
		return fmt.Errorf("cannot print %T", v)
	}
	return nil
}

func (p *printer) object(obj shape.Object, depth int) error {
	if len(obj) == 0 {
		p.sb.WriteString("{}")
		return nil
	}
	p.sb.WriteString("{\n")
	for _, key := range orderedKeys(obj) {
		p.indent(depth + 1)
		p.sb.WriteString(printKey(key))
		p.sb.WriteString(": ")
		if err := p.value(obj[key], depth+1); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.sb.WriteString(",\n")
	}
	p.indent(depth)
	p.sb.WriteByte('}')
	return nil
}

// array prints scalars inline and objects one per line.
func (p *printer) array(items []any, depth int) error {
	if len(items) == 0 {
		p.sb.WriteString("[]")
		return nil
	}
	nested := slices.ContainsFunc(items, func(item any) bool {
		switch item.(type) {
		case shape.Object, []any:
			return true
		}
		return false
	})
	if !nested {
		p.sb.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if err := p.value(item, depth); err != nil {
				return err
			}
		}
		p.sb.WriteByte(']')
		return nil
	}

	p.sb.WriteString("[\n")
	for i, item := range items {
		p.indent(depth + 1)
		if err := p.value(item, depth+1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		p.sb.WriteString(",\n")
	}
	p.indent(depth)
	p.sb.WriteByte(']')
	return nil
}

func (p *printer) indent(depth int) {
	p.sb.WriteString(strings.Repeat("\t", depth))
}

func orderedKeys(obj shape.Object) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := keyRank[keys[i]]
		rj, jKnown := keyRank[keys[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func printKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}
	return quote(key)
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
