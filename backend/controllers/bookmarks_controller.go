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

type BookmarksController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewBookmarksController(db *gorm.DB, cfg *config.Config) *BookmarksController {
	return &BookmarksController{DB: db, Cfg: cfg}
}

// SetBookmark is the targeted mastery write used by study sessions: one
// card, one boolean, no full set payload. Idempotent in both directions.
func (bc *BookmarksController) SetBookmark(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, bc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	flashcardID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid flashcard ID")
	}

	type BookmarkInput struct {
		Bookmarked bool `json:"bookmarked"`
	}
	var input BookmarkInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var card models.Flashcard
	if err := bc.DB.First(&card, flashcardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Flashcard not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// The card must be visible to the caller: own set or public set
	var set models.Set
	if err := bc.DB.First(&set, card.SetID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !set.IsPublic && set.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to bookmark this flashcard")
	}

	var existed bool
	var bookmark models.FlashcardBookmark
	err = bc.DB.Where("user_id = ? AND flashcard_id = ?", userID, card.ID).
		First(&bookmark).Error
	existed = err == nil

	txErr := bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := reconcileBookmark(tx, userID, card.ID, input.Bookmarked); err != nil {
			return err
		}
		// Keep the mastered counter in step, but only on real transitions
		delta := 0
		if input.Bookmarked && !existed {
			delta = 1
		} else if !input.Bookmarked && existed {
			delta = -1
		}
		if delta != 0 {
			return adjustMasteredCards(tx, userID, delta)
		}
		return nil
	})
	if txErr != nil {
		return utils.InternalServerError(c, "Could not update bookmark")
	}

	return c.JSON(fiber.Map{
		"flashcardId": card.ID,
		"bookmarked":  input.Bookmarked,
	})
}

func adjustMasteredCards(tx *gorm.DB, userID uint, delta int) error {
	var stats models.UserStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.DefaultUserStats(userID)
	} else if err != nil {
		return err
	}

	stats.MasteredCards += delta
	if stats.MasteredCards < 0 {
		stats.MasteredCards = 0
	}
	if stats.ID == 0 {
		return tx.Create(&stats).Error
	}
	return tx.Save(&stats).Error
}
