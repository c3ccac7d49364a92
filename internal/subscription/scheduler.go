// Package subscription implements the lease scheduler that decides which
// paid tier is in effect for a user when several time-bounded grants overlap.
// A user's grants form a priority-ordered sequence of non-overlapping windows:
// redeeming the same plan again extends its window (stacking), redeeming a
// higher-priority plan takes over the present and pushes lower tiers behind it
// (cascading displacement), and window transitions are applied lazily on
// access rather than by a background clock.
package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maxkhm/SageBot/internal/database/models"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"gorm.io/gorm"
)

type Scheduler struct {
	db    *gorm.DB
	cards *repositories.CardRepository
	subs  *repositories.SubscriptionRepository
	plans *repositories.PlanRepository

	// Fallback window for cards that carry no validity of their own.
	defaultDuration time.Duration

	now func() time.Time
}

func NewScheduler(db *gorm.DB, defaultDuration time.Duration) *Scheduler {
	return &Scheduler{
		db:              db,
		cards:           repositories.NewCardRepository(db),
		subs:            repositories.NewSubscriptionRepository(db),
		plans:           repositories.NewPlanRepository(db),
		defaultDuration: defaultDuration,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// EnsureDefault guarantees the user holds a grant on the default plan.
// Idempotent: an existing grant is returned unchanged.
func (s *Scheduler) EnsureDefault(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	var result *models.UserSubscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		var plan models.SubscriptionPlan
		if err := tx.Where("is_default = ? AND is_active = ?", true, true).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDefaultPlan
			}
			return err
		}

		if err := s.sweep(tx, userID, now); err != nil {
			return err
		}

		existing, err := s.subs.GetLiveGrantForPlan(tx, userID, plan.ID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		grant := &models.UserSubscription{
			ID:          uuid.NewString(),
			UserID:      userID,
			PlanID:      plan.ID,
			Priority:    plan.Priority,
			Status:      models.SubscriptionActive,
			ActivatedAt: &now,
			StartsAt:    &now,
			ExpiresAt:   nil, // the default tier never expires
		}
		if err := tx.Create(grant).Error; err != nil {
			return err
		}
		result = grant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemCode consumes a one-time card and applies its plan to the user's
// grant timeline. Same-plan redemptions extend the existing grant; a new plan
// either takes over immediately, displacing lower tiers, or queues behind
// grants of equal or higher priority. Card consumption and grant mutation
// commit atomically.
func (s *Scheduler) RedeemCode(ctx context.Context, userID int64, code string) (*models.UserSubscription, error) {
	var result *models.UserSubscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		card, err := s.cards.ConsumeCard(tx, code, userID, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		var plan models.SubscriptionPlan
		if err := tx.First(&plan, "id = ?", card.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanUnavailable
			}
			return err
		}
		if !plan.IsActive {
			return ErrPlanUnavailable
		}

		duration := s.defaultDuration
		if card.ValidDays > 0 {
			duration = time.Duration(card.ValidDays) * 24 * time.Hour
		}
		if duration <= 0 {
			return ErrInvalidDuration
		}

		if err := s.sweep(tx, userID, now); err != nil {
			return err
		}

		grants, err := s.subs.GetLiveGrants(tx, userID)
		if err != nil {
			return err
		}

		for _, g := range grants {
			if g.PlanID == plan.ID {
				result = g
				return s.stack(tx, g, &plan, card.ID, duration, now, grants)
			}
		}

		grant, err := s.schedule(tx, userID, &plan, card.ID, duration, now, grants)
		if err != nil {
			return err
		}
		result = grant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Promote applies due window transitions for the user: pending grants whose
// start has arrived become active (displacing what is left of lower tiers),
// lapsed grants become expired.
func (s *Scheduler) Promote(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.sweep(tx, userID, s.now())
	})
}

// GetEffectiveGrant returns the grant currently in effect, or nil. Read-only:
// it never creates records and reports only committed promotions.
func (s *Scheduler) GetEffectiveGrant(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	return s.subs.GetEffectiveGrant(ctx, userID, s.now())
}

// GetEffectiveCapacity returns the hourly message limit of the effective
// plan, falling back to the default plan when the user has no grant yet.
func (s *Scheduler) GetEffectiveCapacity(ctx context.Context, userID int64) (int, error) {
	grant, err := s.GetEffectiveGrant(ctx, userID)
	if err != nil {
		return 0, err
	}
	if grant != nil && grant.Plan.ID != 0 {
		return grant.Plan.HourlyMessageLimit, nil
	}

	plan, err := s.plans.GetDefaultPlan(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoDefaultPlan
		}
		return 0, err
	}
	return plan.HourlyMessageLimit, nil
}

// sweep is the lazy maintenance pass run at the top of every mutating entry
// point: first expire lapsed grants, then activate due pending ones, highest
// priority first. A pending grant whose start has arrived while an equal or
// higher tier still occupies the present is pushed behind that tier with its
// full entitlement instead of activating into an overlap.
func (s *Scheduler) sweep(tx *gorm.DB, userID int64, now time.Time) error {
	grants, err := s.subs.GetLiveGrants(tx, userID)
	if err != nil {
		return err
	}

	for _, g := range grants {
		if g.ExpiresAt != nil && !g.ExpiresAt.After(now) {
			g.Status = models.SubscriptionExpired
			if err := tx.Save(g).Error; err != nil {
				return err
			}
		}
	}

	for _, g := range grants {
		if g.Status != models.SubscriptionPending {
			continue
		}
		if g.StartsAt == nil || g.StartsAt.After(now) {
			continue
		}

		if blockEnd := blockerEnd(grants, g, now); blockEnd.After(now) {
			remaining := g.ExpiresAt.Sub(*g.StartsAt)
			start := blockEnd
			end := blockEnd.Add(remaining)
			g.StartsAt = &start
			g.ExpiresAt = &end
			if err := tx.Save(g).Error; err != nil {
				return err
			}
			if err := cascade(tx, grants, g.Priority, end, now, g.ID); err != nil {
				return err
			}
			continue
		}

		g.Status = models.SubscriptionActive
		if g.ActivatedAt == nil {
			activated := now
			g.ActivatedAt = &activated
		}
		if err := tx.Save(g).Error; err != nil {
			return err
		}
		if g.ExpiresAt != nil {
			if err := cascade(tx, grants, g.Priority, *g.ExpiresAt, now, g.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// stack extends the user's existing grant for the redeemed plan. Strictly
// additive: the window never shrinks and the row keeps its identity. Lower
// tiers queued behind the grant are re-cascaded past the grown window.
func (s *Scheduler) stack(tx *gorm.DB, g *models.UserSubscription, plan *models.SubscriptionPlan, cardID string, duration time.Duration, now time.Time, grants []*models.UserSubscription) error {
	if g.ExpiresAt == nil {
		// Nothing to add to an infinite window; just record the redemption.
		g.Priority = plan.Priority
		g.SourceCardID = &cardID
		return tx.Save(g).Error
	}

	base := now
	if g.ExpiresAt.After(now) {
		base = *g.ExpiresAt
	}
	expires := base.Add(duration)
	g.ExpiresAt = &expires

	if g.StartsAt == nil {
		if g.ActivatedAt != nil {
			g.StartsAt = g.ActivatedAt
		} else {
			start := now
			g.StartsAt = &start
		}
	}

	if g.StartsAt.After(now) {
		g.Status = models.SubscriptionPending
	} else {
		g.Status = models.SubscriptionActive
		if g.ActivatedAt == nil {
			activated := now
			g.ActivatedAt = &activated
		}
	}

	// Refreshed on purpose: a plan-priority edit between redemptions applies
	// from this redemption on.
	g.Priority = plan.Priority
	g.SourceCardID = &cardID
	if err := tx.Save(g).Error; err != nil {
		return err
	}
	return cascade(tx, grants, g.Priority, *g.ExpiresAt, now, g.ID)
}

// schedule creates a grant for a plan the user does not hold yet. It starts
// now when no equal-or-higher tier occupies the present, otherwise it queues
// behind the latest such blocker.
func (s *Scheduler) schedule(tx *gorm.DB, userID int64, plan *models.SubscriptionPlan, cardID string, duration time.Duration, now time.Time, grants []*models.UserSubscription) (*models.UserSubscription, error) {
	startAt := now
	for _, b := range grants {
		if b.Priority < plan.Priority {
			continue
		}
		if end := windowEnd(b); end.After(startAt) {
			startAt = end
		}
	}

	grant := &models.UserSubscription{
		ID:           uuid.NewString(),
		UserID:       userID,
		PlanID:       plan.ID,
		Priority:     plan.Priority,
		SourceCardID: &cardID,
	}

	if !startAt.After(now) {
		start := now
		expires := now.Add(duration)
		grant.Status = models.SubscriptionActive
		grant.ActivatedAt = &start
		grant.StartsAt = &start
		grant.ExpiresAt = &expires
		if err := tx.Create(grant).Error; err != nil {
			return nil, err
		}
		if err := cascade(tx, grants, plan.Priority, expires, now, grant.ID); err != nil {
			return nil, err
		}
		return grant, nil
	}

	expires := startAt.Add(duration)
	grant.Status = models.SubscriptionPending
	grant.StartsAt = &startAt
	grant.ExpiresAt = &expires
	if err := tx.Create(grant).Error; err != nil {
		return nil, err
	}
	// Lower tiers are displaced only once this grant actually activates.
	return grant, nil
}

// cascade reschedules every lower-priority live grant to after tail,
// preserving its remaining entitlement: an active grant keeps only its
// unconsumed tail, a pending one keeps its full scheduled duration. Displaced
// tiers queue behind each other in priority order.
func cascade(tx *gorm.DB, grants []*models.UserSubscription, abovePriority int, tail time.Time, now time.Time, skipID string) error {
	for _, g := range grants {
		if g.ID == skipID || g.Priority >= abovePriority {
			continue
		}
		if g.Status != models.SubscriptionActive && g.Status != models.SubscriptionPending {
			continue
		}
		if g.ExpiresAt == nil {
			// The infinite default tier runs underneath and is never moved.
			continue
		}

		var remaining time.Duration
		if g.Status == models.SubscriptionPending && g.StartsAt != nil {
			remaining = g.ExpiresAt.Sub(*g.StartsAt)
		} else {
			remaining = g.ExpiresAt.Sub(now)
		}
		if remaining <= 0 {
			// Stale; the next sweep expires it.
			continue
		}

		start := tail
		end := tail.Add(remaining)
		g.Status = models.SubscriptionPending
		g.StartsAt = &start
		g.ExpiresAt = &end
		tail = end
		if err := tx.Save(g).Error; err != nil {
			return err
		}
	}
	return nil
}

// blockerEnd returns the latest expiry among active grants of equal or higher
// priority whose window still covers now, or the zero time when g is free to
// activate.
func blockerEnd(grants []*models.UserSubscription, g *models.UserSubscription, now time.Time) time.Time {
	var end time.Time
	for _, b := range grants {
		if b.ID == g.ID || b.Status != models.SubscriptionActive || b.Priority < g.Priority {
			continue
		}
		if b.ExpiresAt == nil || !b.ExpiresAt.After(now) {
			continue
		}
		if b.ExpiresAt.After(end) {
			end = *b.ExpiresAt
		}
	}
	return end
}

// windowEnd is the moment a grant stops blocking others: its expiry when set,
// else its start (a grant with no recorded end should not occur for paid
// tiers, and the infinite default tier must never delay a paid one).
func windowEnd(g *models.UserSubscription) time.Time {
	if g.ExpiresAt != nil {
		return *g.ExpiresAt
	}
	if g.StartsAt != nil {
		return *g.StartsAt
	}
	return time.Time{}
}
