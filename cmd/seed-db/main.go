// Command seed-db loads demo fixtures (brands, locations, menu, discounts,
// vouchers, upsell campaigns) into PostgreSQL for local development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/digiflydk/orderfly-cart/internal/storage/postgres"
)

type brandJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BagFee        decimal.Decimal `json:"bagFee"`
	AdminFee      decimal.Decimal `json:"adminFee"`
	AdminFeeType  string          `json:"adminFeeType"`
	VATPercentage decimal.Decimal `json:"vatPercentage"`
}

type locationJSON struct {
	ID          string          `json:"id"`
	BrandID     string          `json:"brandId"`
	Name        string          `json:"name"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
}

type categoryJSON struct {
	ID      string `json:"id"`
	BrandID string `json:"brandId"`
	Name    string `json:"name"`
}

type productJSON struct {
	ID         string          `json:"id"`
	BrandID    string          `json:"brandId"`
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"imageUrl"`
}

type discountJSON struct {
	ID            string          `json:"id"`
	BrandID       string          `json:"brandId"`
	LocationID    string          `json:"locationId"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discountType"`
	Method        string          `json:"discountMethod"`
	Value         decimal.Decimal `json:"discountValue"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	OfferCategory bool            `json:"assignToOfferCategory"`
	DeliveryTypes []string        `json:"deliveryTypes"`
}

type voucherJSON struct {
	ID            string          `json:"id"`
	BrandID       string          `json:"brandId"`
	Code          string          `json:"code"`
	Method        string          `json:"discountMethod"`
	Value         decimal.Decimal `json:"discountValue"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
}

type upsellJSON struct {
	ID               string          `json:"id"`
	BrandID          string          `json:"brandId"`
	LocationID       string          `json:"locationId"`
	Name             string          `json:"name"`
	Triggers         json.RawMessage `json:"triggerConditions"`
	OfferType        string          `json:"offerType"`
	OfferProductIDs  []string        `json:"offerProductIds"`
	OfferCategoryIDs []string        `json:"offerCategoryIds"`
	DiscountMethod   string          `json:"discountMethod"`
	DiscountValue    decimal.Decimal `json:"discountValue"`
	ActiveDays       []string        `json:"activeDays"`
	TimeSlots        json.RawMessage `json:"activeTimeSlots"`
}

type fixtures struct {
	Brands     []brandJSON    `json:"brands"`
	Locations  []locationJSON `json:"locations"`
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
	Discounts  []discountJSON `json:"standardDiscounts"`
	Vouchers   []voucherJSON  `json:"vouchers"`
	Upsells    []upsellJSON   `json:"upsells"`
}

func main() {
	var (
		databaseURL  string
		fixturesFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&fixturesFile, "fixtures-file", "db/seed/fixtures.json", "path to fixtures JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, fixturesFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, fixturesFile string) error {
	raw, err := os.ReadFile(fixturesFile)
	if err != nil {
		return errors.Wrap(err, "read fixtures file")
	}
	var fx fixtures
	if err := json.Unmarshal(raw, &fx); err != nil {
		return errors.Wrap(err, "parse fixtures file")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Referenced tables first, in dependency order.
	if err := seedBrands(ctx, pool, fx.Brands); err != nil {
		return err
	}
	if err := seedLocations(ctx, pool, fx.Locations); err != nil {
		return err
	}
	if err := seedCategories(ctx, pool, fx.Categories); err != nil {
		return err
	}
	if err := seedProducts(ctx, pool, fx.Products); err != nil {
		return err
	}

	// The leaf tables are independent of each other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedDiscounts(gctx, pool, fx.Discounts) })
	g.Go(func() error { return seedVouchers(gctx, pool, fx.Vouchers) })
	g.Go(func() error { return seedUpsells(gctx, pool, fx.Upsells) })
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("seeded fixtures",
		slog.Int("brands", len(fx.Brands)),
		slog.Int("locations", len(fx.Locations)),
		slog.Int("products", len(fx.Products)),
		slog.Int("discounts", len(fx.Discounts)),
		slog.Int("vouchers", len(fx.Vouchers)),
		slog.Int("upsells", len(fx.Upsells)),
	)
	return nil
}

func seedBrands(ctx context.Context, pool *pgxpool.Pool, brands []brandJSON) error {
	for _, b := range brands {
		_, err := pool.Exec(ctx, `INSERT INTO brands (id, name, bag_fee, admin_fee, admin_fee_type, vat_percentage)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = $2, bag_fee = $3, admin_fee = $4, admin_fee_type = $5, vat_percentage = $6`,
			b.ID, b.Name, b.BagFee, b.AdminFee, b.AdminFeeType, b.VATPercentage)
		if err != nil {
			return errors.Wrapf(err, "seed brand %s", b.ID)
		}
	}
	return nil
}

func seedLocations(ctx context.Context, pool *pgxpool.Pool, locations []locationJSON) error {
	for _, l := range locations {
		_, err := pool.Exec(ctx, `INSERT INTO locations (id, brand_id, name, delivery_fee)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET brand_id = $2, name = $3, delivery_fee = $4`,
			l.ID, l.BrandID, l.Name, l.DeliveryFee)
		if err != nil {
			return errors.Wrapf(err, "seed location %s", l.ID)
		}
	}
	return nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool, categories []categoryJSON) error {
	for _, c := range categories {
		_, err := pool.Exec(ctx, `INSERT INTO categories (id, brand_id, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET brand_id = $2, name = $3`,
			c.ID, c.BrandID, c.Name)
		if err != nil {
			return errors.Wrapf(err, "seed category %s", c.ID)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON) error {
	for _, p := range products {
		_, err := pool.Exec(ctx, `INSERT INTO products (id, brand_id, category_id, name, price, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET brand_id = $2, category_id = $3, name = $4, price = $5, image_url = $6`,
			p.ID, p.BrandID, p.CategoryID, p.Name, p.Price, p.ImageURL)
		if err != nil {
			return errors.Wrapf(err, "seed product %s", p.ID)
		}
	}
	return nil
}

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool, discounts []discountJSON) error {
	for _, d := range discounts {
		deliveryTypes := d.DeliveryTypes
		if len(deliveryTypes) == 0 {
			deliveryTypes = []string{"delivery", "pickup"}
		}
		_, err := pool.Exec(ctx, `INSERT INTO standard_discounts
			(id, brand_id, location_id, name, discount_type, discount_method, discount_value, min_order_value, offer_category, delivery_types)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING`,
			d.ID, d.BrandID, d.LocationID, d.Name, d.DiscountType, d.Method, d.Value, d.MinOrderValue, d.OfferCategory, deliveryTypes)
		if err != nil {
			return errors.Wrapf(err, "seed discount %s", d.ID)
		}
	}
	return nil
}

func seedVouchers(ctx context.Context, pool *pgxpool.Pool, vouchers []voucherJSON) error {
	for _, v := range vouchers {
		_, err := pool.Exec(ctx, `INSERT INTO vouchers (id, brand_id, code, discount_method, discount_value, min_order_value)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			v.ID, v.BrandID, v.Code, v.Method, v.Value, v.MinOrderValue)
		if err != nil {
			return errors.Wrapf(err, "seed voucher %s", v.ID)
		}
	}
	return nil
}

func seedUpsells(ctx context.Context, pool *pgxpool.Pool, upsells []upsellJSON) error {
	for _, u := range upsells {
		triggers := u.Triggers
		if triggers == nil {
			triggers = json.RawMessage("[]")
		}
		slots := u.TimeSlots
		if slots == nil {
			slots = json.RawMessage("[]")
		}
		_, err := pool.Exec(ctx, `INSERT INTO upsells
			(id, brand_id, location_id, name, trigger_conditions, offer_type, offer_product_ids, offer_category_ids,
			 discount_method, discount_value, active_days, active_time_slots)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.BrandID, u.LocationID, u.Name, triggers, u.OfferType, u.OfferProductIDs, u.OfferCategoryIDs,
			u.DiscountMethod, u.DiscountValue, u.ActiveDays, slots)
		if err != nil {
			return errors.Wrapf(err, "seed upsell %s", u.ID)
		}
	}
	return nil
}
