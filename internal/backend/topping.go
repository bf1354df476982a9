package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Topping is the canonical topping shape used everywhere past this package.
type Topping struct {
	Name string `json:"name"`
}

// ToppingList absorbs the three encodings the backend is known to emit for
// toppings: a comma-separated string, an array of strings, or an array of
// {name} objects. Whatever arrives, the decoded value is a uniform list of
// Topping records; the union never leaks out of this package.
type ToppingList []Topping

func (l *ToppingList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}

	switch trimmed[0] {
	case '"':
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*l = splitToppingString(joined)
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(ToppingList, 0, len(raw))
		for _, item := range raw {
			entry := strings.TrimSpace(string(item))
			if entry == "" {
				continue
			}
			if entry[0] == '"' {
				var name string
				if err := json.Unmarshal(item, &name); err != nil {
					return err
				}
				if name = strings.TrimSpace(name); name != "" {
					out = append(out, Topping{Name: name})
				}
				continue
			}
			var topping Topping
			if err := json.Unmarshal(item, &topping); err != nil {
				return err
			}
			if topping.Name = strings.TrimSpace(topping.Name); topping.Name != "" {
				out = append(out, topping)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("unsupported topping encoding: %s", trimmed)
	}
}

// Names returns the plain topping names, preserving order.
func (l ToppingList) Names() []string {
	if len(l) == 0 {
		return nil
	}
	names := make([]string, 0, len(l))
	for _, t := range l {
		names = append(names, t.Name)
	}
	return names
}

func splitToppingString(joined string) ToppingList {
	parts := strings.Split(joined, ",")
	out := make(ToppingList, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, Topping{Name: name})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeToppings builds the canonical list from plain names, dropping
// blanks. Used where toppings enter the system from local selections rather
// than backend payloads.
func NormalizeToppings(names []string) ToppingList {
	out := make(ToppingList, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, Topping{Name: name})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
