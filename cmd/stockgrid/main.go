package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jask/stockgrid/internal/api"
	"github.com/jask/stockgrid/internal/config"
	"github.com/jask/stockgrid/internal/grid"
	"github.com/jask/stockgrid/internal/prefs"
	"github.com/jask/stockgrid/internal/tables"
	"github.com/jask/stockgrid/internal/tui"
)

func main() {
	orderID := flag.Int64("order", 0, "purchase order to load line items for")
	partID := flag.Int64("part", 0, "part to load build allocations for")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Log)

	client := api.New(api.Options{
		BaseURL:           cfg.Server.URL,
		Token:             cfg.Token(),
		Timeout:           time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Server.RatePerSecond,
		Burst:             cfg.Server.RateBurst,
		Logger:            logger,
	})

	caps := fetchRoles(ctx, client, logger)

	deps := tables.Deps{
		Ctx:      ctx,
		API:      client,
		Caps:     caps,
		Nav:      navigator(cfg.UI.WebBase),
		PageSize: cfg.UI.PageSize,
	}

	var tabs []*tables.Table
	if *orderID > 0 {
		order, err := client.Get(ctx, "/api/order/po/", *orderID)
		if err != nil {
			log.Fatalf("load purchase order %d: %v", *orderID, err)
		}
		tabs = append(tabs, tables.PurchaseOrderLines(deps, order))
	}
	if *partID > 0 {
		tabs = append(tabs, tables.BuildAllocations(deps, *partID))
	}
	tabs = append(tabs, tables.LocationTypes(deps))

	p := tea.NewProgram(tui.New(tabs, &prefs.Store{}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	// stdout belongs to the terminal UI; logs go to a rotated file.
	if cfg.Path != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
		})
	}
	return logger
}

// fetchRoles flattens the server's role map into "domain.verb" keys. A
// failed lookup yields an empty set, which hides every gated action
// rather than aborting startup.
func fetchRoles(ctx context.Context, client *api.Client, logger *logrus.Logger) grid.RoleSet {
	roles, err := client.Roles(ctx)
	if err != nil {
		logger.WithError(err).Warn("role lookup failed, permission-gated actions disabled")
		return grid.RoleSet{}
	}
	set := grid.RoleSet{}
	for domain, verbs := range roles {
		for _, verb := range verbs {
			set[domain+"."+verb] = true
		}
	}
	return set
}

func navigator(webBase string) grid.Navigator {
	base := strings.TrimRight(webBase, "/")
	return func(modelType string, modelID int64) string {
		if base == "" || modelID <= 0 {
			return ""
		}
		return fmt.Sprintf("%s/%s/%d", base, strings.ReplaceAll(modelType, "_", "-"), modelID)
	}
}
