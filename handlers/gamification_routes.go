// handlers/gamification_routes.go
package handlers

import (
	"trilha-do-cristo/middleware"
	"trilha-do-cristo/models"
	"trilha-do-cristo/services"

	"github.com/gofiber/fiber/v2"
)

type badgeView struct {
	models.Badge
	Glyph string `json:"glyph"`
}

type challengeView struct {
	models.Challenge
	Glyph string `json:"glyph"`
}

type gamificationView struct {
	UserID      string                       `json:"user_id,omitempty"`
	Badges      []badgeView                  `json:"badges"`
	Challenges  []challengeView              `json:"challenges"`
	TotalPoints int64                        `json:"total_points"`
	Level       int                          `json:"level"`
	Summary     services.GamificationSummary `json:"summary"`
}

func newGamificationView(state models.GamificationState) gamificationView {
	v := gamificationView{
		UserID:      state.UserID,
		Badges:      make([]badgeView, 0, len(state.Badges)),
		Challenges:  make([]challengeView, 0, len(state.Challenges)),
		TotalPoints: state.TotalPoints,
		Level:       state.Level,
		Summary:     services.Summarize(state),
	}
	for _, b := range state.Badges {
		v.Badges = append(v.Badges, badgeView{Badge: b, Glyph: b.Icon.Glyph()})
	}
	for _, ch := range state.Challenges {
		v.Challenges = append(v.Challenges, challengeView{Challenge: ch, Glyph: ch.Icon.Glyph()})
	}
	return v
}

func SetupGamificationRoutes(app *fiber.App, auth fiber.Handler, gamificationService *services.GamificationService) {
	// 🔓 Public
	app.Get("/gamification/catalog", func(c *fiber.Ctx) error {
		return c.JSON(newGamificationView(models.NewGamificationState("")))
	})

	// 🔐 Secured
	app.Get("/gamification", auth, func(c *fiber.Ctx) error {
		state, err := gamificationService.Refresh(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "failed to refresh gamification", err)
		}
		return c.JSON(newGamificationView(state))
	})
}
