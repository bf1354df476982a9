package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/phohaitrieu/pos/internal/backend"
	"github.com/phohaitrieu/pos/internal/pos"
	"github.com/phohaitrieu/pos/pkg"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("Cannot setup %s(%s): %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	backendURL, _ := config.GetString("backend.url")
	if backendURL == "" {
		backendURL = "http://localhost:8088"
	}
	client := aqm.NewServiceClient(backendURL)

	menuDA := backend.NewMenuDataAccess(client)
	tableDA := backend.NewTableOrderDataAccess(client)
	cartDA := backend.NewCartDataAccess(client)
	orderDA := backend.NewOrderDataAccess(client)
	hotpotDA := backend.NewHotpotDataAccess(client)

	natsURL, _ := config.GetString("nats.url")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	channel, err := pkg.NewChannel(natsURL)
	if err != nil {
		log.Fatalf("Cannot connect to NATS: %v", err)
	}

	rules := pos.DefaultToppingRules()
	if raw, _ := config.GetString("menu.topping.rules"); raw != "" {
		rules = pos.ParseToppingRules(raw)
	}

	menu := pos.NewMenuSelection(menuDA, rules, logger)
	cart := pos.NewCart(cartDA, rules, channel, logger)
	tables := pos.NewTableScreen(tableDA, channel, logger)
	history := pos.NewHistoryState(orderDA, tableDA, logger)
	kitchen := pos.NewKitchenBoard(orderDA, logger)
	hotpot := pos.NewHotpotLog(hotpotDA, logger)

	historySub := pos.NewHistorySubscriber(channel, history, logger)
	kitchenSub := pos.NewKitchenSubscriber(channel, kitchen, logger)

	handler := pos.NewHandler(pos.HandlerDeps{
		Menu:      menu,
		Cart:      cart,
		Tables:    tables,
		History:   history,
		Kitchen:   kitchen,
		Hotpot:    hotpot,
		Publisher: channel,
	}, config, logger)

	warmup := aqm.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			// Warm loads are best effort: a backend that is briefly down
			// must not keep the device from starting.
			if err := menu.Load(ctx); err != nil {
				logger.Error("cannot warm menu catalog", "error", err)
			}
			if err := tables.LoadTables(ctx); err != nil {
				logger.Error("cannot warm table list", "error", err)
			}
			if err := tables.Resync(ctx); err != nil {
				logger.Error("cannot warm table orders", "error", err)
			}
			if err := history.Fetch(ctx); err != nil {
				logger.Error("cannot warm order history", "error", err)
			}
			if err := kitchen.Load(ctx); err != nil {
				logger.Error("cannot warm kitchen board", "error", err)
			}
			if err := hotpot.Load(ctx); err != nil {
				logger.Error("cannot warm hotpot ledger", "error", err)
			}
			return nil
		},
	}

	channelTeardown := aqm.LifecycleHooks{
		OnStop: func(ctx context.Context) error {
			return channel.Close()
		},
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: false,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(warmup, historySub, kitchenSub, channelTeardown),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
