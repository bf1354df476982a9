package pos

import (
	"context"
	"strings"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/internal/backend"
)

// ToppingRule controls how topping selection behaves for a dish.
type ToppingRule string

const (
	RuleNoTopping       ToppingRule = "noTopping"
	RuleOptionalTopping ToppingRule = "optionalTopping"
	RuleRequiredTopping ToppingRule = "requiredTopping"
)

// ToppingRules maps dish names to their topping rule. Dishes without an
// explicit rule allow optional toppings.
type ToppingRules map[string]ToppingRule

// DefaultToppingRules reflects the house menu: the mixed rice plates come
// dressed as-is, the noodle soups take optional toppings.
func DefaultToppingRules() ToppingRules {
	return ToppingRules{
		"Cẩm Thường":   RuleNoTopping,
		"Cẩm Đặc Biệt": RuleNoTopping,
		"Bún Bò":       RuleOptionalTopping,
	}
}

func (r ToppingRules) For(dishName string) ToppingRule {
	if rule, ok := r[dishName]; ok {
		return rule
	}
	return RuleOptionalTopping
}

// ParseToppingRules reads "name=rule" pairs from a comma separated config
// value, e.g. "Cẩm Thường=noTopping,Bún Bò=requiredTopping". An unknown rule
// value falls back to optional so one typo cannot lock a dish out of the
// menu; an empty or unparsable value yields the house defaults.
func ParseToppingRules(raw string) ToppingRules {
	rules := make(ToppingRules)
	for _, pair := range strings.Split(raw, ",") {
		name, rule, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		switch ToppingRule(strings.TrimSpace(rule)) {
		case RuleNoTopping:
			rules[name] = RuleNoTopping
		case RuleRequiredTopping:
			rules[name] = RuleRequiredTopping
		default:
			rules[name] = RuleOptionalTopping
		}
	}
	if len(rules) == 0 {
		return DefaultToppingRules()
	}
	return rules
}

const unknownDishName = "unknown dish"

// DishLookup resolves dish ids to display names. It is built once from the
// full catalog; unknown ids resolve to a placeholder instead of failing.
type DishLookup map[string]string

func NewDishLookup(dishes []backend.Dish) DishLookup {
	lookup := make(DishLookup, len(dishes))
	for _, dish := range dishes {
		lookup[dish.ID] = dish.Name
	}
	return lookup
}

func (l DishLookup) Name(id string) string {
	if name, ok := l[id]; ok && name != "" {
		return name
	}
	return unknownDishName
}

// Selection is a snapshot of the current menu picks, ready for the cart.
type Selection struct {
	Dish     *backend.Dish
	Toppings []string
	Note     string
}

// MenuSelection holds the dish and topping catalogs plus the transient
// selection state of the ordering screen: one selected dish, a set of
// toppings, a free-text note.
type MenuSelection struct {
	mu     sync.Mutex
	api    MenuAPI
	rules  ToppingRules
	logger aqm.Logger

	dishes    []backend.Dish
	toppings  []backend.Topping
	byID      map[string]backend.Dish
	loadError string

	selectedDish     string
	selectedToppings []string
	note             string
}

func NewMenuSelection(api MenuAPI, rules ToppingRules, logger aqm.Logger) *MenuSelection {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if rules == nil {
		rules = DefaultToppingRules()
	}
	return &MenuSelection{
		api:    api,
		rules:  rules,
		logger: logger,
		byID:   make(map[string]backend.Dish),
	}
}

// Load fetches both catalogs. On failure the screen keeps a localized error
// message in place of the list; no retry is attempted.
func (m *MenuSelection) Load(ctx context.Context) error {
	dishes, err := m.api.ListDishes(ctx)
	if err != nil {
		m.logger.Error("cannot load dish catalog", "error", err)
		m.setLoadError("Lỗi tải món ăn")
		return err
	}

	toppings, err := m.api.ListToppings(ctx)
	if err != nil {
		m.logger.Error("cannot load topping catalog", "error", err)
		m.setLoadError("Lỗi tải topping")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes = dishes
	m.toppings = toppings
	m.byID = make(map[string]backend.Dish, len(dishes))
	for _, dish := range dishes {
		m.byID[dish.ID] = dish
	}
	m.loadError = ""
	return nil
}

func (m *MenuSelection) setLoadError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = msg
}

// LoadError returns the localized message shown in place of the catalog, or
// empty when the last load succeeded.
func (m *MenuSelection) LoadError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadError
}

func (m *MenuSelection) Dishes() []backend.Dish {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]backend.Dish, len(m.dishes))
	copy(out, m.dishes)
	return out
}

func (m *MenuSelection) Toppings() []backend.Topping {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]backend.Topping, len(m.toppings))
	copy(out, m.toppings)
	return out
}

// Dish resolves a dish by id, falling back to the backend for ids the
// cached catalog does not know (a device may hold orders for dishes added
// after its last reload).
func (m *MenuSelection) Dish(ctx context.Context, id string) (*backend.Dish, error) {
	m.mu.Lock()
	dish, ok := m.byID[id]
	m.mu.Unlock()
	if ok {
		copied := dish
		return &copied, nil
	}
	return m.api.GetDish(ctx, id)
}

// SelectDish picks a dish by id; selecting the already-selected dish
// deselects it. Picking a no-topping dish clears any selected toppings.
func (m *MenuSelection) SelectDish(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selectedDish == id {
		m.selectedDish = ""
		return
	}

	m.selectedDish = id
	if dish, ok := m.byID[id]; ok {
		if m.rules.For(dish.Name) == RuleNoTopping {
			m.selectedToppings = nil
		}
	}
}

// ToggleTopping adds or removes a topping from the selection set. The set
// never holds duplicates, so toggling is idempotent pair-wise.
func (m *MenuSelection) ToggleTopping(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.selectedToppings {
		if existing == name {
			m.selectedToppings = append(m.selectedToppings[:i], m.selectedToppings[i+1:]...)
			return
		}
	}
	m.selectedToppings = append(m.selectedToppings, name)
}

func (m *MenuSelection) SetNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.note = note
}

// Selection snapshots the current picks. Dish is nil when nothing is
// selected or the id is not in the catalog.
func (m *MenuSelection) Selection() Selection {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel := Selection{Note: m.note}
	if dish, ok := m.byID[m.selectedDish]; ok {
		copied := dish
		sel.Dish = &copied
	}
	if len(m.selectedToppings) > 0 {
		sel.Toppings = make([]string, len(m.selectedToppings))
		copy(sel.Toppings, m.selectedToppings)
	}
	return sel
}

// SelectedToppings returns the current topping picks.
func (m *MenuSelection) SelectedToppings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.selectedToppings))
	copy(out, m.selectedToppings)
	return out
}

// SelectedDish returns the currently selected dish id, empty when none.
func (m *MenuSelection) SelectedDish() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedDish
}

func (m *MenuSelection) Note() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.note
}

// Reset clears the transient selection after a successful add-to-cart.
func (m *MenuSelection) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedDish = ""
	m.selectedToppings = nil
	m.note = ""
}

// Rules exposes the configured topping rules.
func (m *MenuSelection) Rules() ToppingRules {
	return m.rules
}
