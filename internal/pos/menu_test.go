package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/phohaitrieu/pos/internal/backend"
)

func testMenu(t *testing.T) *MenuSelection {
	t.Helper()

	api := &MockMenuAPI{
		ListDishesFunc: func(ctx context.Context) ([]backend.Dish, error) {
			return []backend.Dish{
				{ID: "d1", Name: "Phở Bò", Price: 50000},
				{ID: "d2", Name: "Cẩm Thường", Price: 40000},
				{ID: "d3", Name: "Bún Bò", Price: 45000},
			}, nil
		},
		ListToppingsFunc: func(ctx context.Context) ([]backend.Topping, error) {
			return []backend.Topping{{Name: "Tái"}, {Name: "Nạm"}}, nil
		},
	}

	menu := NewMenuSelection(api, DefaultToppingRules(), nil)
	if err := menu.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return menu
}

func TestMenuSelectionLoad(t *testing.T) {
	menu := testMenu(t)

	if got := len(menu.Dishes()); got != 3 {
		t.Errorf("Dishes() returned %d dishes, want 3", got)
	}
	if got := len(menu.Toppings()); got != 2 {
		t.Errorf("Toppings() returned %d toppings, want 2", got)
	}
	if menu.LoadError() != "" {
		t.Errorf("LoadError() = %q, want empty", menu.LoadError())
	}
}

func TestMenuSelectionLoadFailure(t *testing.T) {
	api := &MockMenuAPI{
		ListDishesFunc: func(ctx context.Context) ([]backend.Dish, error) {
			return nil, errors.New("backend down")
		},
	}

	menu := NewMenuSelection(api, nil, nil)
	if err := menu.Load(context.Background()); err == nil {
		t.Fatal("Load() should fail when dish catalog is unavailable")
	}
	if menu.LoadError() != "Lỗi tải món ăn" {
		t.Errorf("LoadError() = %q, want localized dish error", menu.LoadError())
	}
}

func TestSelectDishToggles(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("d1")
	if menu.SelectedDish() != "d1" {
		t.Errorf("SelectedDish() = %q, want d1", menu.SelectedDish())
	}

	// Selecting the same dish again deselects it.
	menu.SelectDish("d1")
	if menu.SelectedDish() != "" {
		t.Errorf("SelectedDish() after toggle = %q, want empty", menu.SelectedDish())
	}
}

func TestSelectNoToppingDishClearsToppings(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("d1")
	menu.ToggleTopping("Tái")
	menu.ToggleTopping("Nạm")

	menu.SelectDish("d2") // Cẩm Thường, no toppings allowed
	if got := menu.SelectedToppings(); len(got) != 0 {
		t.Errorf("SelectedToppings() after no-topping dish = %v, want empty", got)
	}
}

func TestSelectOptionalToppingDishKeepsToppings(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("d1")
	menu.ToggleTopping("Tái")

	menu.SelectDish("d3") // Bún Bò, optional toppings
	if got := menu.SelectedToppings(); len(got) != 1 || got[0] != "Tái" {
		t.Errorf("SelectedToppings() = %v, want [Tái]", got)
	}
}

func TestToggleTopping(t *testing.T) {
	menu := testMenu(t)

	menu.ToggleTopping("Tái")
	menu.ToggleTopping("Nạm")
	menu.ToggleTopping("Tái")

	got := menu.SelectedToppings()
	if len(got) != 1 || got[0] != "Nạm" {
		t.Errorf("SelectedToppings() = %v, want [Nạm]", got)
	}
}

func TestSelectionSnapshot(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("d3")
	menu.ToggleTopping("Tái")
	menu.SetNote("ít cay")

	sel := menu.Selection()
	if sel.Dish == nil || sel.Dish.Name != "Bún Bò" {
		t.Fatalf("Selection().Dish = %+v, want Bún Bò", sel.Dish)
	}
	if len(sel.Toppings) != 1 || sel.Toppings[0] != "Tái" {
		t.Errorf("Selection().Toppings = %v, want [Tái]", sel.Toppings)
	}
	if sel.Note != "ít cay" {
		t.Errorf("Selection().Note = %q, want ít cay", sel.Note)
	}
}

func TestSelectionUnknownDish(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("nope")
	if sel := menu.Selection(); sel.Dish != nil {
		t.Errorf("Selection().Dish = %+v, want nil for unknown id", sel.Dish)
	}
}

func TestMenuReset(t *testing.T) {
	menu := testMenu(t)

	menu.SelectDish("d1")
	menu.ToggleTopping("Tái")
	menu.SetNote("note")
	menu.Reset()

	sel := menu.Selection()
	if sel.Dish != nil || len(sel.Toppings) != 0 || sel.Note != "" {
		t.Errorf("Selection() after Reset = %+v, want empty", sel)
	}
}

func TestMenuDishFallsBackToBackend(t *testing.T) {
	api := &MockMenuAPI{
		ListDishesFunc: func(ctx context.Context) ([]backend.Dish, error) {
			return []backend.Dish{{ID: "d1", Name: "Phở Bò", Price: 50000}}, nil
		},
		GetDishFunc: func(ctx context.Context, id string) (*backend.Dish, error) {
			if id == "d9" {
				return &backend.Dish{ID: "d9", Name: "Lẩu Gà", Price: 250000}, nil
			}
			return nil, errors.New("not found")
		},
	}
	menu := NewMenuSelection(api, nil, nil)
	if err := menu.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Cached catalog hit: no backend call needed.
	dish, err := menu.Dish(context.Background(), "d1")
	if err != nil || dish.Name != "Phở Bò" {
		t.Errorf("Dish(d1) = %+v, %v, want cached Phở Bò", dish, err)
	}

	dish, err = menu.Dish(context.Background(), "d9")
	if err != nil || dish.Name != "Lẩu Gà" {
		t.Errorf("Dish(d9) = %+v, %v, want backend Lẩu Gà", dish, err)
	}

	if _, err := menu.Dish(context.Background(), "missing"); err == nil {
		t.Error("Dish(missing) should propagate the backend error")
	}
}

func TestDishLookup(t *testing.T) {
	lookup := NewDishLookup([]backend.Dish{{ID: "d1", Name: "Phở Bò"}})

	if got := lookup.Name("d1"); got != "Phở Bò" {
		t.Errorf("Name(d1) = %q, want Phở Bò", got)
	}
	if got := lookup.Name("missing"); got != "unknown dish" {
		t.Errorf("Name(missing) = %q, want unknown dish", got)
	}
}

func TestToppingRulesFor(t *testing.T) {
	rules := DefaultToppingRules()

	tests := []struct {
		name string
		dish string
		want ToppingRule
	}{
		{"noToppingDish", "Cẩm Thường", RuleNoTopping},
		{"noToppingSpecial", "Cẩm Đặc Biệt", RuleNoTopping},
		{"optionalDish", "Bún Bò", RuleOptionalTopping},
		{"unlistedDish", "Phở Bò", RuleOptionalTopping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.For(tt.dish); got != tt.want {
				t.Errorf("For(%q) = %q, want %q", tt.dish, got, tt.want)
			}
		})
	}
}

func TestParseToppingRules(t *testing.T) {
	rules := ParseToppingRules("Cẩm Thường=noTopping, Bún Bò=requiredTopping,Phở Bò=bogus,=noTopping,broken")

	tests := []struct {
		name string
		dish string
		want ToppingRule
	}{
		{"noToppingDish", "Cẩm Thường", RuleNoTopping},
		{"requiredDish", "Bún Bò", RuleRequiredTopping},
		{"unknownRuleValue", "Phở Bò", RuleOptionalTopping},
		{"unlistedDish", "Hủ Tiếu", RuleOptionalTopping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.For(tt.dish); got != tt.want {
				t.Errorf("For(%q) = %q, want %q", tt.dish, got, tt.want)
			}
		})
	}

	fallback := ParseToppingRules("")
	if fallback.For("Cẩm Thường") != RuleNoTopping {
		t.Error("empty config should fall back to the house defaults")
	}
}
