package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/internal/backend"
)

// SeedDemo fills the backend with a small, repeatable front-of-house
// scenario: a couple of open groups on the first tables and two hotpot
// ledger entries. Re-running it is safe; duplicate group names are skipped.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	backendURL, _ := config.GetString("backend.url")
	if backendURL == "" {
		backendURL = "http://localhost:8088"
	}
	client := aqm.NewServiceClient(backendURL)

	tableDA := backend.NewTableOrderDataAccess(client)
	menuDA := backend.NewMenuDataAccess(client)
	hotpotDA := backend.NewHotpotDataAccess(client)

	dishes, err := menuDA.ListDishes(ctx)
	if err != nil {
		return fmt.Errorf("cannot fetch dish catalog: %w", err)
	}
	if len(dishes) == 0 {
		return fmt.Errorf("dish catalog is empty; seed the backend menu first")
	}

	orders, err := tableDA.ListTableOrders(ctx)
	if err != nil {
		return fmt.Errorf("cannot fetch table orders: %w", err)
	}
	openNames := make(map[string]struct{})
	for _, order := range orders {
		for _, group := range order.Groups {
			openNames[fmt.Sprintf("%d/%s", order.TableID, group.GroupName)] = struct{}{}
		}
	}

	seedGroups := []struct {
		tableID int
		name    string
	}{
		{1, "Nhóm 1"},
		{1, "Nhóm 2"},
		{2, "Nhóm 1"},
	}

	for _, seed := range seedGroups {
		if _, open := openNames[fmt.Sprintf("%d/%s", seed.tableID, seed.name)]; open {
			logger.Info("group already open, skipping", "table_id", seed.tableID, "group", seed.name)
			continue
		}

		group, err := tableDA.CreateGroup(ctx, backend.CreateGroupRequest{
			TableID:   seed.tableID,
			GroupName: seed.name,
		})
		if err != nil {
			return fmt.Errorf("cannot create group %q on table %d: %w", seed.name, seed.tableID, err)
		}

		err = tableDA.AddDish(ctx, backend.AddDishRequest{
			TableID:  seed.tableID,
			GroupID:  group.GroupID,
			DishID:   dishes[0].ID,
			Toppings: []string{"Tái"},
		})
		if err != nil {
			return fmt.Errorf("cannot seed dish into group %q: %w", seed.name, err)
		}
		logger.Info("seeded group", "table_id", seed.tableID, "group", seed.name)
	}

	hotpots := []backend.HotpotRequest{
		{Price: "250000", Note: "Lẩu gà lá é"},
		{Price: "320000", Note: "Lẩu bò nhúng dấm"},
	}
	for _, hotpot := range hotpots {
		if _, err := hotpotDA.CreateHotpot(ctx, hotpot); err != nil {
			return fmt.Errorf("cannot seed hotpot entry: %w", err)
		}
		logger.Info("seeded hotpot entry", "price", hotpot.Price)
	}

	return nil
}
