package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-ticketing/internal/cache"
	"github.com/spec-kit/pos-ticketing/internal/events"
)

// RegisterCacheInvalidation subscribes handlers that drop stale open-ticket
// cache entries whenever a ticket is saved.
func RegisterCacheInvalidation(dispatcher events.Dispatcher, ticketCache *cache.TicketCache, logger *zap.Logger) {
	if dispatcher == nil || ticketCache == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketSaved, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.TicketSavedPayload)
		if !ok {
			return nil
		}
		if err := ticketCache.Invalidate(ctx, payload.ResourceIDs); err != nil {
			logger.Warn("open ticket cache invalidation failed",
				zap.Int("ticket_id", event.TicketID), zap.Error(err))
		}
		return nil
	})
}
