package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"quiznest/backend/config"
	"quiznest/backend/models"
	"quiznest/backend/utils"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type SetsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

// CardInput is the wire form of a flashcard in create and update payloads.
// A nil ID means the card does not exist yet.
type CardInput struct {
	ID           *uint  `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Hint         string `json:"hint"`
	Notes        string `json:"notes"`
	Difficulty   string `json:"difficulty"`
	IsBookmarked bool   `json:"isBookmarked"`
}

func NewSetsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *SetsController {
	return &SetsController{DB: db, Cfg: cfg, Logger: logger}
}

// CreateSet persists a new set with its initial cards and bumps the
// owner's aggregate stats. Card inserts follow the configured failure
// policy: abort rolls everything back, skip drops the failing card and
// keeps going.
func (sc *SetsController) CreateSet(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type CreateSetInput struct {
		Title       string      `json:"title"`
		Description string      `json:"description"`
		IsPublic    bool        `json:"isPublic"`
		FolderID    *uint       `json:"folderId"`
		Flashcards  []CardInput `json:"flashcards"`
	}

	var input CreateSetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if strings.TrimSpace(input.Title) == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if len(input.Flashcards) == 0 {
		return utils.BadRequest(c, "At least one flashcard is required")
	}

	shareID, err := gonanoid.New()
	if err != nil {
		return utils.InternalServerError(c, "Could not generate share ID")
	}

	set := models.Set{
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		UserID:      userID,
		FolderID:    input.FolderID,
		ShareID:     shareID,
	}

	created := 0
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}

		for i, card := range input.Flashcards {
			cardErr := validateCard(card)
			if cardErr == nil {
				flashcard := models.Flashcard{
					SetID:      set.ID,
					Question:   card.Question,
					Answer:     card.Answer,
					Hint:       card.Hint,
					Notes:      card.Notes,
					Difficulty: models.DifficultyFromString(card.Difficulty),
				}
				cardErr = tx.Create(&flashcard).Error
			}

			if cardErr != nil {
				if sc.Cfg.CardInsertPolicy == config.CardInsertSkip {
					sc.Logger.Printf("CreateSet: skipping card %d for set %d: %v", i, set.ID, cardErr)
					continue
				}
				return cardErr
			}
			created++
		}

		return upsertStatsAfterCreate(tx, userID, created)
	})
	if err != nil {
		if errors.Is(err, errInvalidCard) {
			return utils.BadRequest(c, "Each flashcard needs a question and an answer")
		}
		return utils.InternalServerError(c, "Could not create set")
	}

	return c.Status(fiber.StatusCreated).JSON(sc.setResponse(sc.DB, set.ID, userID))
}

var errInvalidCard = errors.New("flashcard is missing question or answer text")

func validateCard(card CardInput) error {
	if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
		return errInvalidCard
	}
	return nil
}

// upsertStatsAfterCreate bumps totalSets by one and totalCards by the
// number of cards that actually made it in.
func upsertStatsAfterCreate(tx *gorm.DB, userID uint, cards int) error {
	var stats models.UserStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.DefaultUserStats(userID)
		stats.TotalSets = 1
		stats.TotalCards = cards
		return tx.Create(&stats).Error
	} else if err != nil {
		return err
	}

	stats.TotalSets++
	stats.TotalCards += cards
	return tx.Save(&stats).Error
}

// GetUserSets returns the caller's own sets, optionally filtered by folder.
func (sc *SetsController) GetUserSets(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := sc.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if folderID := c.Query("folderId"); folderID != "" {
		parsed, err := strconv.Atoi(folderID)
		if err != nil {
			return utils.BadRequest(c, "Invalid folder ID")
		}
		query = query.Where("folder_id = ?", parsed)
	}

	var sets []models.Set
	if err := query.Find(&sets).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, set := range sets {
		var cardCount int64
		sc.DB.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&cardCount)
		result = append(result, fiber.Map{
			"id":              set.ID,
			"title":           set.Title,
			"description":     set.Description,
			"isPublic":        set.IsPublic,
			"folderId":        set.FolderID,
			"shareId":         set.ShareID,
			"flashcardsCount": cardCount,
			"createdAt":       set.CreatedAt,
		})
	}

	return c.JSON(result)
}

// GetRecentSets returns public sets plus the caller's own, newest first,
// paginated.
func (sc *SetsController) GetRecentSets(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}

	visible := sc.DB.Model(&models.Set{}).Where("is_public = ? OR user_id = ?", true, userID)

	var total int64
	visible.Count(&total)

	var sets []models.Set
	if err := sc.DB.Preload("User").
		Where("is_public = ? OR user_id = ?", true, userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sets).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, set := range sets {
		var cardCount int64
		sc.DB.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&cardCount)
		result = append(result, fiber.Map{
			"id":              set.ID,
			"title":           set.Title,
			"description":     set.Description,
			"isPublic":        set.IsPublic,
			"flashcardsCount": cardCount,
			"createdAt":       set.CreatedAt,
			"user": fiber.Map{
				"id":    set.User.ID,
				"name":  set.User.Name,
				"image": set.User.Image,
			},
		})
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return c.JSON(fiber.Map{
		"sets": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	})
}

// GetSet enforces the visibility invariant: public sets are readable by
// anyone, private sets only by their owner.
func (sc *SetsController) GetSet(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	setID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid set ID")
	}

	var set models.Set
	if err := sc.DB.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Set not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if !set.IsPublic && set.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to view this set")
	}

	return c.JSON(sc.setResponse(sc.DB, set.ID, userID))
}

func (sc *SetsController) DeleteSet(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	setID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid set ID")
	}

	var set models.Set
	if err := sc.DB.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Set not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if set.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to delete this set")
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		var cardIDs []uint
		if err := tx.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).
			Pluck("id", &cardIDs).Error; err != nil {
			return err
		}
		if len(cardIDs) > 0 {
			if err := tx.Where("flashcard_id IN ?", cardIDs).
				Delete(&models.FlashcardBookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Where("set_id = ?", set.ID).
				Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&set).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete set")
	}

	return c.JSON(fiber.Map{"message": "Set deleted"})
}

// AddSetToFolder files one of the caller's sets under one of their folders.
func (sc *SetsController) AddSetToFolder(c *fiber.Ctx) error {
	return sc.assignFolder(c, true)
}

func (sc *SetsController) RemoveSetFromFolder(c *fiber.Ctx) error {
	return sc.assignFolder(c, false)
}

func (sc *SetsController) assignFolder(c *fiber.Ctx, attach bool) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	setID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid set ID")
	}

	var set models.Set
	if err := sc.DB.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Set not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if set.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to update this set")
	}

	if !attach {
		set.FolderID = nil
		if err := sc.DB.Save(&set).Error; err != nil {
			return utils.InternalServerError(c, "Could not update set")
		}
		return c.JSON(fiber.Map{"message": "Set removed from folder"})
	}

	type FolderInput struct {
		FolderID uint `json:"folderId"`
	}
	var input FolderInput
	if err := c.BodyParser(&input); err != nil || input.FolderID == 0 {
		return utils.BadRequest(c, "folderId is required")
	}

	var folder models.Folder
	if err := sc.DB.First(&folder, input.FolderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Folder not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if folder.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to use this folder")
	}

	set.FolderID = &folder.ID
	if err := sc.DB.Save(&set).Error; err != nil {
		return utils.InternalServerError(c, "Could not update set")
	}

	return c.JSON(fiber.Map{"message": "Set added to folder"})
}
