package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/db"
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
	"github.com/angelmondragon/pickpackz-backend/pkg/enums"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
)

// Development fixtures: one site, a small bin grid, a handful of products
// with stock, and two open orders. Rerunning is safe; every row is keyed on
// its natural unique column.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", fmt.Errorf("env is %s", cfg.App.Env))
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := seed(ctx, dbClient.DB(), cfg.App.SiteCode); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

func seed(ctx context.Context, gdb *gorm.DB, siteCode string) error {
	gdb = gdb.WithContext(ctx)

	site := models.Site{ID: uuid.New(), Code: siteCode, Name: "Main Warehouse"}
	if err := gdb.Where(models.Site{Code: siteCode}).FirstOrCreate(&site).Error; err != nil {
		return fmt.Errorf("seed site: %w", err)
	}

	bins := make([]models.Bin, 0, 12)
	for aisle := 'A'; aisle <= 'C'; aisle++ {
		for row := 1; row <= 2; row++ {
			for col := 1; col <= 2; col++ {
				bin := models.Bin{
					ID:       uuid.New(),
					SiteID:   site.ID,
					Code:     fmt.Sprintf("%c%d-%02d", aisle, row, col),
					Aisle:    string(aisle),
					Row:      row,
					Column:   col,
					Capacity: 100,
					Type:     enums.BinTypeShelf,
				}
				if err := gdb.Where(models.Bin{SiteID: site.ID, Code: bin.Code}).FirstOrCreate(&bin).Error; err != nil {
					return fmt.Errorf("seed bin %s: %w", bin.Code, err)
				}
				bins = append(bins, bin)
			}
		}
	}

	type fixture struct {
		sku     string
		name    string
		barcode string
		qty     int
	}
	fixtures := []fixture{
		{"WID-001", "Widget, small", "0012345678905", 80},
		{"WID-002", "Widget, large", "0012345678912", 40},
		{"GAD-001", "Gadget, standard", "0012345678929", 60},
		{"GAD-002", "Gadget, deluxe", "0012345678936", 25},
	}

	products := make([]models.Product, 0, len(fixtures))
	for i, f := range fixtures {
		product := models.Product{ID: uuid.New(), SKU: f.sku, Name: f.name, Barcode: f.barcode}
		if err := gdb.Where(models.Product{SKU: f.sku}).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", f.sku, err)
		}
		products = append(products, product)

		bin := bins[i%len(bins)]
		record := models.InventoryRecord{
			ID:                uuid.New(),
			ProductID:         product.ID,
			BinID:             bin.ID,
			SiteID:            site.ID,
			Quantity:          f.qty,
			QuantityAvailable: f.qty,
		}
		if err := gdb.Where(models.InventoryRecord{ProductID: product.ID, BinID: bin.ID}).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("seed inventory for %s: %w", f.sku, err)
		}
	}

	orders := []struct {
		number   string
		customer string
		priority enums.OrderPriority
		lines    []int
	}{
		{"ORD-2026-0001", "Acme Retail", enums.OrderPriorityNormal, []int{0, 1}},
		{"ORD-2026-0002", "Globex Stores", enums.OrderPriorityUrgent, []int{2, 3}},
	}

	for _, o := range orders {
		order := models.Order{
			ID:              uuid.New(),
			OrderNumber:     o.number,
			SiteID:          site.ID,
			CustomerName:    o.customer,
			CustomerContact: "ops@example.com",
			ShippingAddress: "100 Depot Road",
			Priority:        o.priority,
			Status:          enums.OrderStatusPending,
		}
		if err := gdb.Where(models.Order{OrderNumber: o.number}).FirstOrCreate(&order).Error; err != nil {
			return fmt.Errorf("seed order %s: %w", o.number, err)
		}

		for _, idx := range o.lines {
			product := products[idx]
			bin := bins[idx%len(bins)]
			line := models.OrderLine{
				ID:         uuid.New(),
				OrderID:    order.ID,
				ProductID:  product.ID,
				SKU:        product.SKU,
				Name:       product.Name,
				Barcode:    product.Barcode,
				OrderedQty: 3,
				BinCode:    bin.Code,
			}
			if err := gdb.Where(models.OrderLine{OrderID: order.ID, ProductID: product.ID}).FirstOrCreate(&line).Error; err != nil {
				return fmt.Errorf("seed line %s/%s: %w", o.number, product.SKU, err)
			}
		}
	}

	return nil
}
