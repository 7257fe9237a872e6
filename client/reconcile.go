package client

import (
	"context"
	"fmt"

	"reqwire/internal/domain/models"
	"reqwire/internal/mapper"
)

// ReconcileRequirement applies one change event to the requirement caches.
// Inserts and updates are a single upsert by id, so applying the same event
// twice (or an update racing a fetch that already returned the new state)
// leaves exactly one copy. Deletes scrub the entity from every local store.
func (c *Client) ReconcileRequirement(ev models.ChangeEvent) error {
	switch ev.EventType {
	case models.ChangeDelete:
		row, err := mapper.DecodeRow[mapper.RequirementRow](ev.Old)
		if err != nil {
			return fmt.Errorf("decode deleted row: %w", err)
		}
		if row == nil {
			return nil
		}
		c.Requirements.cache.remove(row.ID)
		c.Selection.Deselect(KindRequirement, row.ID)
		c.Recency.Remove(KindRequirement, row.ID)
		return nil

	case models.ChangeInsert, models.ChangeUpdate:
		row, err := mapper.DecodeRow[mapper.RequirementRow](ev.New)
		if err != nil {
			return fmt.Errorf("decode changed row: %w", err)
		}
		requirement := mapper.Requirement(row)
		if requirement == nil {
			return nil
		}
		c.Requirements.cache.upsert(requirement, requirementMatches)
		return nil

	default:
		return fmt.Errorf("unknown change type %q", ev.EventType)
	}
}

// FollowRequirements subscribes to the requirement change stream and applies
// every event to the caches until the stream closes or the context is
// cancelled. It returns nil on context cancellation and an error when the
// stream closed on its own (callers may resubscribe and refetch; nothing is
// replayed).
func (c *Client) FollowRequirements(ctx context.Context, filter RequirementFilter) error {
	sub, err := c.SubscribeRequirements(ctx, filter.ProjectID)
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-sub.C:
			if !open {
				return fmt.Errorf("change stream closed")
			}
			if err := c.ReconcileRequirement(ev); err != nil {
				c.logger.Error("reconcile failed", "error", err)
			}
		}
	}
}
