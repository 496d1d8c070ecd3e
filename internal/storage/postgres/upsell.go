package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
	"github.com/digiflydk/orderfly-cart/internal/domain/upsell"
)

const (
	listActiveUpsellsSQL = `SELECT id, brand_id, location_id, name, trigger_conditions,
		offer_type, offer_product_ids, offer_category_ids,
		discount_method, discount_value,
		active_days, active_time_slots, start_date, end_date,
		active, views, conversions
		FROM upsells
		WHERE brand_id = $1 AND location_id = $2 AND active = TRUE
		ORDER BY created_at, id`

	incrementUpsellViewsSQL       = `UPDATE upsells SET views = views + 1 WHERE id = $1`
	incrementUpsellConversionsSQL = `UPDATE upsells SET conversions = conversions + 1 WHERE id = $1`
)

var _ upsell.Repository = (*UpsellRepository)(nil)

// UpsellRepository implements upsell.Repository backed by PostgreSQL.
//
// Counter increments are single atomic UPDATE statements, so concurrent
// shoppers hitting the same campaign never lose updates.
type UpsellRepository struct {
	pool *pgxpool.Pool
}

// NewUpsellRepository returns a repository using the given pool.
func NewUpsellRepository(pool *pgxpool.Pool) *UpsellRepository {
	return &UpsellRepository{pool: pool}
}

// ListActive returns the active campaigns for a brand and location in
// creation order. That order is the matcher's candidate order.
func (r *UpsellRepository) ListActive(ctx context.Context, brandID, locationID string) ([]upsell.Campaign, error) {
	rows, err := r.pool.Query(ctx, listActiveUpsellsSQL, brandID, locationID)
	if err != nil {
		return nil, fmt.Errorf("listing upsells for brand %q location %q: %w", brandID, locationID, err)
	}

	campaigns, err := pgx.CollectRows(rows, scanCampaign)
	if err != nil {
		return nil, fmt.Errorf("listing upsells for brand %q location %q: %w", brandID, locationID, err)
	}
	return campaigns, nil
}

// IncrementViews atomically bumps the campaign's view counter.
func (r *UpsellRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, incrementUpsellViewsSQL, id); err != nil {
		return fmt.Errorf("incrementing views for upsell %q: %w", id, err)
	}
	return nil
}

// IncrementConversions atomically bumps the campaign's conversion counter.
func (r *UpsellRepository) IncrementConversions(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, incrementUpsellConversionsSQL, id); err != nil {
		return fmt.Errorf("incrementing conversions for upsell %q: %w", id, err)
	}
	return nil
}

// triggerJSON is the JSONB shape of one trigger condition.
type triggerJSON struct {
	Type        string          `json:"type"`
	ReferenceID string          `json:"referenceId,omitempty"`
	Threshold   decimal.Decimal `json:"threshold,omitempty"`
}

// slotJSON is the JSONB shape of one activation time slot.
type slotJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func scanCampaign(row pgx.CollectableRow) (upsell.Campaign, error) {
	var (
		c                  upsell.Campaign
		triggersRaw        []byte
		slotsRaw           []byte
		offerType, method  string
		days               []string
		startDate, endDate *time.Time
	)
	err := row.Scan(&c.ID, &c.BrandID, &c.LocationID, &c.Name, &triggersRaw,
		&offerType, &c.OfferProductIDs, &c.OfferCategoryIDs,
		&method, &c.DiscountValue,
		&days, &slotsRaw, &startDate, &endDate,
		&c.Active, &c.Views, &c.Conversions)
	if err != nil {
		return upsell.Campaign{}, err
	}

	c.OfferType = upsell.OfferType(offerType)
	c.DiscountMethod = discount.Method(method)
	c.Schedule.StartDate = startDate
	c.Schedule.EndDate = endDate

	var triggers []triggerJSON
	if err := json.Unmarshal(triggersRaw, &triggers); err != nil {
		return upsell.Campaign{}, fmt.Errorf("decoding triggers for upsell %q: %w", c.ID, err)
	}
	c.Triggers = make([]upsell.Trigger, len(triggers))
	for i, t := range triggers {
		c.Triggers[i] = upsell.Trigger{
			Type:        upsell.TriggerType(t.Type),
			ReferenceID: t.ReferenceID,
			Threshold:   t.Threshold,
		}
	}

	var slots []slotJSON
	if err := json.Unmarshal(slotsRaw, &slots); err != nil {
		return upsell.Campaign{}, fmt.Errorf("decoding time slots for upsell %q: %w", c.ID, err)
	}
	c.Schedule.Slots = make([]upsell.TimeSlot, len(slots))
	for i, s := range slots {
		c.Schedule.Slots[i] = upsell.TimeSlot{Start: s.Start, End: s.End}
	}

	c.Schedule.Days = make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if wd, ok := weekdays[d]; ok {
			c.Schedule.Days = append(c.Schedule.Days, wd)
		}
	}

	return c, nil
}

// weekdays maps the lowercase day names stored by the back office.
var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
