package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
)

// parsePrice accepts a JSON number or a numeric string. The result must be a
// finite, non-negative number.
func parsePrice(v any) (float64, error) {
	var price float64
	switch p := v.(type) {
	case nil:
		return 0, apperr.Validation("price is required")
	case float64:
		price = p
	case float32:
		price = float64(p)
	case int:
		price = float64(p)
	case int64:
		price = float64(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, apperr.Validation("price %q is not a number", p.String())
		}
		price = f
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return 0, apperr.Validation("price is required")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, apperr.Validation("price %q is not a number", p)
		}
		price = f
	default:
		return 0, apperr.Validation("price has unsupported type %T", v)
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperr.Validation("price must be a finite number")
	}
	if price < 0 {
		return 0, apperr.Validation("price must not be negative")
	}
	return price, nil
}

// parseAllergens splits "Gluten;Dairy;none" style strings, passes lists
// through and maps anything else to an empty list.
func parseAllergens(v any) []string {
	out := []string{}
	switch a := v.(type) {
	case string:
		for _, part := range strings.Split(a, ";") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "none") {
				continue
			}
			out = append(out, part)
		}
	case []string:
		for _, s := range a {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, e := range a {
			if s, ok := e.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
				continue
			}
			if e != nil {
				out = append(out, fmt.Sprint(e))
			}
		}
	}
	return out
}

// truthy coerces a loosely typed flag. Strings that parse as booleans
// ("false", "0") count as that boolean, any other non-empty string is true.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case int:
		return b != 0
	case json.Number:
		f, err := b.Float64()
		return err != nil || f != 0
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
		return b != ""
	default:
		return true
	}
}
