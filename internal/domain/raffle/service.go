// internal/domain/raffle/service.go
package raffle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/domain/user"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service runs raffle draws. Each draw picks a uniformly random purchase of
// the gift and marks the gift raffled exactly once; the purchase ledger is
// never modified by a draw.
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
	logger *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new raffle service. The Redis client may be nil;
// draws then run without the cross-instance lock.
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EligibleGiftResponse represents a gift that is ready to be drawn
type EligibleGiftResponse struct {
	GiftID     uint            `json:"gift_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	DonorName  string          `json:"donor_name"`
	EntryCount int64           `json:"entry_count"`
}

// RaffleResult represents the outcome of one draw
type RaffleResult struct {
	GiftID            uint            `json:"gift_id"`
	GiftName          string          `json:"gift_name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	DonorName         string          `json:"donor_name"`
	WinnerID          uint            `json:"winner_id"`
	WinnerName        string          `json:"winner_name"`
	WinnerEmail       string          `json:"winner_email"`
	WinnerPhone       string          `json:"winner_phone,omitempty"`
	RaffleDate        time.Time       `json:"raffle_date"`
	TotalParticipants int64           `json:"total_participants"`
}

// BulkDrawSummary represents the outcome of drawing every eligible gift
type BulkDrawSummary struct {
	Drawn   int            `json:"drawn"`
	Failed  int            `json:"failed"`
	Results []RaffleResult `json:"results"`
}

// ListEligible returns the gifts that can be drawn right now: not yet
// raffled and holding at least one purchase.
func (s *Service) ListEligible() ([]EligibleGiftResponse, error) {
	var gifts []gift.Gift
	err := s.db.Where("is_raffled = ?", false).
		Where("id IN (?)", s.db.Table("purchase_records").Select("gift_id")).
		Order("id ASC").Find(&gifts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible gifts: %w", err)
	}

	if len(gifts) == 0 {
		return []EligibleGiftResponse{}, nil
	}

	giftIDs := make([]uint, len(gifts))
	for i, g := range gifts {
		giftIDs[i] = g.ID
	}

	type entryCount struct {
		GiftID uint
		Count  int64
	}
	var counts []entryCount
	err = s.db.Table("purchase_records").
		Select("gift_id, COUNT(*) as count").
		Where("gift_id IN ?", giftIDs).
		Group("gift_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	entryCounts := make(map[uint]int64, len(counts))
	for _, c := range counts {
		entryCounts[c.GiftID] = c.Count
	}

	responses := make([]EligibleGiftResponse, 0, len(gifts))
	for _, g := range gifts {
		responses = append(responses, EligibleGiftResponse{
			GiftID:     g.ID,
			Name:       g.Name,
			Category:   g.Category,
			Price:      g.Price,
			DonorName:  s.donorName(g.DonorID),
			EntryCount: entryCounts[g.ID],
		})
	}

	return responses, nil
}

// DrawOne raffles a single gift. Drawing an unknown gift fails with not
// found; drawing a raffled gift or a gift without purchases fails with a
// conflict. Two concurrent draws of the same gift resolve to exactly one
// winner: the losing draw sees no rows updated and reports a conflict.
func (s *Service) DrawOne(ctx context.Context, giftID uint) (*RaffleResult, error) {
	release, err := s.acquireDrawLock(ctx, giftID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *RaffleResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var g gift.Gift
		if err := tx.First(&g, giftID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: gift %d", apperr.ErrNotFound, giftID)
			}
			return fmt.Errorf("failed to retrieve gift: %w", err)
		}
		if g.IsRaffled {
			return fmt.Errorf("%w: gift %d has already been raffled", apperr.ErrConflict, giftID)
		}

		var entries []purchase.PurchaseRecord
		err := tx.Where("gift_id = ?", giftID).Order("purchased_at ASC, id ASC").Find(&entries).Error
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("%w: gift %d has no purchases to draw from", apperr.ErrConflict, giftID)
		}

		winner := entries[s.pick(len(entries))]
		drawnAt := time.Now().UTC()

		update := tx.Model(&gift.Gift{}).
			Where("id = ? AND is_raffled = ?", giftID, false).
			Updates(map[string]interface{}{
				"is_raffled":  true,
				"winner_id":   winner.UserID,
				"raffle_date": drawnAt,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to record draw: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return fmt.Errorf("%w: gift %d was raffled concurrently", apperr.ErrConflict, giftID)
		}

		var w user.User
		if err := tx.First(&w, winner.UserID).Error; err != nil {
			return fmt.Errorf("failed to load winner: %w", err)
		}

		result = &RaffleResult{
			GiftID:            g.ID,
			GiftName:          g.Name,
			Category:          g.Category,
			Price:             g.Price,
			DonorName:         s.donorName(g.DonorID),
			WinnerID:          w.ID,
			WinnerName:        w.Name,
			WinnerEmail:       w.Email,
			WinnerPhone:       w.Phone,
			RaffleDate:        drawnAt,
			TotalParticipants: int64(len(entries)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"gift_id":   result.GiftID,
		"winner_id": result.WinnerID,
		"entries":   result.TotalParticipants,
	}).Info("Raffle drawn")

	return result, nil
}

// DrawAll raffles every eligible gift. A failed draw is logged and skipped
// so one bad gift never aborts the rest of the run.
func (s *Service) DrawAll(ctx context.Context) (*BulkDrawSummary, error) {
	eligible, err := s.ListEligible()
	if err != nil {
		return nil, err
	}

	summary := &BulkDrawSummary{Results: []RaffleResult{}}
	for _, e := range eligible {
		result, err := s.DrawOne(ctx, e.GiftID)
		if err != nil {
			summary.Failed++
			s.logger.WithError(err).WithField("gift_id", e.GiftID).Warn("Skipping gift in bulk draw")
			continue
		}
		summary.Drawn++
		summary.Results = append(summary.Results, *result)
	}

	return summary, nil
}

// ListOutcomes returns completed draws, most recent first. Participant
// counts are recounted from the ledger on every call.
func (s *Service) ListOutcomes() ([]RaffleResult, error) {
	var gifts []gift.Gift
	err := s.db.Where("is_raffled = ?", true).Order("raffle_date DESC, id DESC").Find(&gifts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list raffle outcomes: %w", err)
	}

	results := make([]RaffleResult, 0, len(gifts))
	for _, g := range gifts {
		if g.WinnerID == nil || g.RaffleDate == nil {
			continue
		}

		var w user.User
		if err := s.db.First(&w, *g.WinnerID).Error; err != nil {
			return nil, fmt.Errorf("failed to load winner: %w", err)
		}

		var count int64
		if err := s.db.Table("purchase_records").Where("gift_id = ?", g.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count entries: %w", err)
		}

		results = append(results, RaffleResult{
			GiftID:            g.ID,
			GiftName:          g.Name,
			Category:          g.Category,
			Price:             g.Price,
			DonorName:         s.donorName(g.DonorID),
			WinnerID:          w.ID,
			WinnerName:        w.Name,
			WinnerEmail:       w.Email,
			WinnerPhone:       w.Phone,
			RaffleDate:        *g.RaffleDate,
			TotalParticipants: count,
		})
	}

	return results, nil
}

// pick selects a random index in [0, n)
func (s *Service) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// acquireDrawLock takes a short per-gift lock in Redis. The lock is an
// optimization that keeps concurrent draws of the same gift from racing to
// the conditional update; when Redis is unavailable the draw proceeds and
// the update's row guard still keeps the outcome single-winner.
func (s *Service) acquireDrawLock(ctx context.Context, giftID uint) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("raffle:draw:%d", giftID)
	acquired, err := s.redis.SetNX(ctx, key, "1", 30*time.Second).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Raffle lock unavailable, proceeding without it")
		return func() {}, nil
	}
	if !acquired {
		return nil, fmt.Errorf("%w: gift %d draw already in progress", apperr.ErrConflict, giftID)
	}

	return func() {
		if err := s.redis.Del(context.Background(), key).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to release raffle lock")
		}
	}, nil
}

// donorName resolves a donor's display name, empty when unknown
func (s *Service) donorName(donorID uint) string {
	var d donor.Donor
	if err := s.db.First(&d, donorID).Error; err != nil {
		return ""
	}
	return d.Name
}
