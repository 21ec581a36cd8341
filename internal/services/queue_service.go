package services

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment-system/internal/dto"
	"fulfillment-system/internal/repositories"
	"fulfillment-system/pkg/eventbus"

	"go.uber.org/zap"
)

const queueCacheKey = "fulfillment:queue"

type QueueServiceInterface interface {
	GetQueue(ctx context.Context) ([]dto.QueueEntryDTO, error)
	InvalidateCache(ctx context.Context) error
}

// QueueService serves the scored active-order queue. The scored snapshot is
// cached briefly in Redis; every status transition invalidates it through
// the event bus, so the queue a scanner kiosk polls stays fresh without
// rescoring on every request.
type QueueService struct {
	orderRepo repositories.OrderRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	scorer    *PriorityScorer
	cacheTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewQueueService(
	orderRepo repositories.OrderRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	scorer *PriorityScorer,
	cacheTTL time.Duration,
	bus *eventbus.Bus,
	logger *zap.Logger,
) QueueServiceInterface {
	s := &QueueService{
		orderRepo: orderRepo,
		cacheRepo: cacheRepo,
		scorer:    scorer,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
	bus.Subscribe(OrderStatusChangedEvent{}.Name(), func(ctx context.Context, _ eventbus.Event) error {
		return s.InvalidateCache(ctx)
	})
	return s
}

func (s *QueueService) GetQueue(ctx context.Context) ([]dto.QueueEntryDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, queueCacheKey); err == nil && cached != "" {
		var entries []dto.QueueEntryDTO
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		// A corrupt snapshot is rebuilt, not surfaced.
		_ = s.cacheRepo.Del(ctx, queueCacheKey)
	}

	orders, err := s.orderRepo.FindActiveOrders(ctx)
	if err != nil {
		return nil, err
	}

	ranked := s.scorer.Rank(orders, s.now())
	entries := make([]dto.QueueEntryDTO, 0, len(ranked))
	for _, e := range ranked {
		entry := dto.QueueEntryDTO{
			OrderID:           e.Order.ID,
			OrderNumber:       e.Order.OrderNumber,
			CustomerName:      e.Order.CustomerName,
			DeliveryRegion:    e.Order.DeliveryRegion,
			Status:            e.Order.Status,
			PrimaryMaterial:   e.Order.PrimaryMaterial(),
			DaysRemaining:     e.DaysRemaining,
			Tier:              e.Tier.String(),
			Score:             e.Score,
			IsCanariasUrgent:  e.IsCanariasUrgent,
			IsGroupedMaterial: e.IsGroupedMaterial,
		}
		if e.Order.DueDate.Valid {
			entry.DueDate = e.Order.DueDate.Time.Format(dateLayout)
		}
		entries = append(entries, entry)
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := s.cacheRepo.Set(ctx, queueCacheKey, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache queue snapshot", zap.Error(err))
		}
	}
	return entries, nil
}

func (s *QueueService) InvalidateCache(ctx context.Context) error {
	return s.cacheRepo.Del(ctx, queueCacheKey)
}
