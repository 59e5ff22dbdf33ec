package controllers

import (
	"errors"
	"strconv"

	"quiznest/backend/config"
	"quiznest/backend/models"
	"quiznest/backend/utils"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type StatsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg}
}

// GetStats returns the caller's aggregate counters, creating the row
// with defaults on first read.
func (stc *StatsController) GetStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, stc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var stats models.UserStats
	if err := stc.DB.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		stats = models.DefaultUserStats(userID)
		stc.DB.Create(&stats)
	}

	return c.JSON(fiber.Map{
		"totalSets":     stats.TotalSets,
		"completedSets": stats.CompletedSets,
		"totalCards":    stats.TotalCards,
		"masteredCards": stats.MasteredCards,
		"studyStreak":   stats.StudyStreak,
		"lastStudyDate": stats.LastStudyDate,
		"xpPoints":      stats.XPPoints,
		"level":         stats.Level,
	})
}

type AchievementsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAchievementsController(db *gorm.DB, cfg *config.Config) *AchievementsController {
	return &AchievementsController{DB: db, Cfg: cfg}
}

// GetRecentAchievements lists the caller's latest unlocks, newest first.
func (axc *AchievementsController) GetRecentAchievements(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, axc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	if limit < 1 {
		limit = 5
	}

	var achievements []models.Achievement
	if err := axc.DB.Where("user_id = ?", userID).
		Order("unlocked_at DESC").Limit(limit).
		Find(&achievements).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, a := range achievements {
		result = append(result, fiber.Map{
			"id":          a.ID,
			"name":        a.Name,
			"description": a.Description,
			"icon":        a.Icon,
			"unlockedAt":  a.UnlockedAt,
		})
	}

	return c.JSON(result)
}
