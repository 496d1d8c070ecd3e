package upsell

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/digiflydk/orderfly-cart/internal/domain/product"
)

// Service runs the checkout-intent matching pass and records campaign
// counters.
type Service struct {
	campaigns Repository
	products  product.Repository
	lg        *zap.Logger
	now       func() time.Time
}

// NewService creates an upsell Service.
func NewService(campaigns Repository, products product.Repository, lg *zap.Logger) *Service {
	return &Service{
		campaigns: campaigns,
		products:  products,
		lg:        lg,
		now:       time.Now,
	}
}

// MatchCheckoutIntent evaluates the active campaigns for the cart's
// brand+location against the snapshot and returns the first one that fires
// with at least one offerable product left after suppression. Candidates are
// evaluated in repository return order; no further ranking is defined.
// Returns (nil, nil) when nothing matches, in which case checkout proceeds
// directly.
//
// The winning campaign's views counter is incremented before returning. The
// increment is fire-and-forget: a failure is logged, not surfaced, and is
// not rolled back if the shopper never sees the dialog.
func (s *Service) MatchCheckoutIntent(ctx context.Context, snap Snapshot) (*Match, error) {
	campaigns, err := s.campaigns.ListActive(ctx, snap.State.BrandID, snap.State.LocationID)
	if err != nil {
		return nil, errors.Wrap(err, "list active campaigns")
	}

	now := s.now()
	for _, c := range campaigns {
		if !c.Active || !c.Schedule.ActiveAt(now) {
			continue
		}
		if !c.Triggered(snap) {
			continue
		}

		offered, err := s.resolveOffer(ctx, c)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve offer for campaign %s", c.ID)
		}
		offered = suppress(offered, snap.State)
		if len(offered) == 0 {
			continue
		}

		if err := s.campaigns.IncrementViews(ctx, c.ID); err != nil {
			s.lg.Error("increment upsell views",
				zap.String("campaign_id", c.ID),
				zap.Error(err),
			)
		}
		return &Match{Campaign: c, Offered: offered}, nil
	}

	return nil, nil
}

// RecordConversion increments the campaign's conversion counter after the
// shopper accepts the offer. There is no deduplication key, so a retried
// call double-counts.
func (s *Service) RecordConversion(ctx context.Context, campaignID string) error {
	if err := s.campaigns.IncrementConversions(ctx, campaignID); err != nil {
		return errors.Wrapf(err, "increment conversions for campaign %s", campaignID)
	}
	return nil
}

// resolveOffer expands the campaign's offer declaration into concrete
// products.
func (s *Service) resolveOffer(ctx context.Context, c Campaign) ([]product.Product, error) {
	switch c.OfferType {
	case OfferProducts:
		return s.products.GetByIDs(ctx, c.OfferProductIDs)
	case OfferCategories:
		return s.products.ListByCategories(ctx, c.OfferCategoryIDs)
	default:
		return nil, errors.Errorf("unsupported offer type: %q", c.OfferType)
	}
}
