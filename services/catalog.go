package services

import (
	"trilha-do-cristo/models"
)

// ReconcileCatalog merges a persisted state with the canonical catalog.
// Entries are matched by id: persisted progress wins, catalog entries the
// user has never seen are inserted fresh, and ids the catalog no longer
// knows are kept at the end untouched. A nil or empty state yields the
// canonical seed.
func ReconcileCatalog(userID string, persisted *models.GamificationState) models.GamificationState {
	if persisted == nil || (len(persisted.Badges) == 0 && len(persisted.Challenges) == 0) {
		seed := models.NewGamificationState(userID)
		if persisted != nil {
			seed.TotalPoints = persisted.TotalPoints
			if persisted.Level > 0 {
				seed.Level = persisted.Level
			}
		}
		return seed
	}

	out := persisted.Clone()
	out.UserID = userID
	if out.Level < 1 {
		out.Level = 1
	}
	out.Badges = reconcileBadges(out.Badges)
	out.Challenges = reconcileChallenges(out.Challenges)
	return out
}

func reconcileBadges(stored []models.Badge) []models.Badge {
	byID := make(map[string]models.Badge, len(stored))
	for _, b := range stored {
		if b.ID == "" {
			continue
		}
		if _, dup := byID[b.ID]; !dup {
			byID[b.ID] = b
		}
	}

	canonical := models.DefaultBadges()
	known := make(map[string]struct{}, len(canonical))
	merged := make([]models.Badge, 0, len(canonical)+len(stored))
	for _, def := range canonical {
		known[def.ID] = struct{}{}
		b, ok := byID[def.ID]
		if !ok {
			merged = append(merged, def)
			continue
		}
		if b.Name == "" {
			b.Name = def.Name
		}
		if b.Description == "" {
			b.Description = def.Description
		}
		if b.Icon == "" {
			b.Icon = def.Icon
		}
		if def.Target != nil && (b.Target == nil || *b.Target <= 0) {
			t := *def.Target
			b.Target = &t
		}
		merged = append(merged, b)
	}

	seen := make(map[string]struct{}, len(stored))
	for _, b := range stored {
		if _, ok := known[b.ID]; ok {
			continue
		}
		if _, dup := seen[b.ID]; dup || b.ID == "" {
			continue
		}
		seen[b.ID] = struct{}{}
		merged = append(merged, b)
	}
	return merged
}

func reconcileChallenges(stored []models.Challenge) []models.Challenge {
	byID := make(map[string]models.Challenge, len(stored))
	for _, c := range stored {
		if c.ID == "" {
			continue
		}
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}

	canonical := models.DefaultChallenges()
	known := make(map[string]struct{}, len(canonical))
	merged := make([]models.Challenge, 0, len(canonical)+len(stored))
	for _, def := range canonical {
		known[def.ID] = struct{}{}
		c, ok := byID[def.ID]
		if !ok {
			merged = append(merged, def)
			continue
		}
		if c.Name == "" {
			c.Name = def.Name
		}
		if c.Description == "" {
			c.Description = def.Description
		}
		if c.Icon == "" {
			c.Icon = def.Icon
		}
		if c.Reward == "" {
			c.Reward = def.Reward
		}
		if c.Type == "" {
			c.Type = def.Type
		}
		if c.Target <= 0 {
			c.Target = def.Target
		}
		merged = append(merged, c)
	}

	seen := make(map[string]struct{}, len(stored))
	for _, c := range stored {
		if _, ok := known[c.ID]; ok {
			continue
		}
		if _, dup := seen[c.ID]; dup || c.ID == "" {
			continue
		}
		seen[c.ID] = struct{}{}
		merged = append(merged, c)
	}
	return merged
}
