package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"quiznest/backend/models"
	"quiznest/backend/utils"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

// OptionalUint distinguishes an omitted JSON field from an explicit null.
// Omitted keeps the current value, null clears it, a number sets it.
type OptionalUint struct {
	Present bool
	Value   *uint
}

func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// cardDiff is the partition of a desired card list against the set's
// current card IDs.
type cardDiff struct {
	ToUpdate []CardInput
	ToAdd    []CardInput
	ToDelete []uint
}

// diffCards splits desired into updates (id present in existing), adds
// (no id) and deletes (existing ids not mentioned). Cards carrying an id
// the set does not own are dropped. Insertion order of adds is preserved.
func diffCards(existingIDs []uint, desired []CardInput) cardDiff {
	existing := make(map[uint]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	var diff cardDiff
	kept := make(map[uint]bool, len(desired))
	for _, card := range desired {
		switch {
		case card.ID == nil:
			diff.ToAdd = append(diff.ToAdd, card)
		case existing[*card.ID]:
			diff.ToUpdate = append(diff.ToUpdate, card)
			kept[*card.ID] = true
		}
	}

	for _, id := range existingIDs {
		if !kept[id] {
			diff.ToDelete = append(diff.ToDelete, id)
		}
	}

	return diff
}

// UpdateSet applies a client-submitted desired state for a set and its
// cards as one atomic diff: scalar field updates, card updates with
// bookmark reconciliation, ordered inserts, deletes with bookmark
// cleanup. Any failure rolls the whole thing back.
func (sc *SetsController) UpdateSet(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	setID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid set ID")
	}

	type UpdateSetInput struct {
		Title       *string      `json:"title"`
		Description *string      `json:"description"`
		IsPublic    *bool        `json:"isPublic"`
		FolderID    OptionalUint `json:"folderId"`
		Flashcards  []CardInput  `json:"flashcards"`
	}

	var input UpdateSetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if len(input.Flashcards) == 0 {
		return utils.BadRequest(c, "At least one flashcard is required")
	}
	for _, card := range input.Flashcards {
		if err := validateCard(card); err != nil {
			return utils.BadRequest(c, "Each flashcard needs a question and an answer")
		}
	}

	var set models.Set
	if err := sc.DB.Preload("Flashcards").First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Set not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if set.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to update this set")
	}

	existingIDs := make([]uint, len(set.Flashcards))
	for i, card := range set.Flashcards {
		existingIDs[i] = card.ID
	}
	diff := diffCards(existingIDs, input.Flashcards)

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		// Scalar fields fall back to their prior values when omitted.
		// folderId distinguishes omitted (keep) from null (clear).
		if input.Title != nil {
			set.Title = *input.Title
		}
		if input.Description != nil {
			set.Description = *input.Description
		}
		if input.IsPublic != nil {
			set.IsPublic = *input.IsPublic
		}
		if input.FolderID.Present {
			set.FolderID = input.FolderID.Value
		}
		if err := tx.Omit("Flashcards").Save(&set).Error; err != nil {
			return err
		}

		for _, card := range diff.ToUpdate {
			updates := map[string]interface{}{
				"question":   card.Question,
				"answer":     card.Answer,
				"hint":       card.Hint,
				"notes":      card.Notes,
				"difficulty": models.DifficultyFromString(card.Difficulty),
			}
			if err := tx.Model(&models.Flashcard{}).
				Where("id = ? AND set_id = ?", *card.ID, set.ID).
				Updates(updates).Error; err != nil {
				return err
			}
			if err := reconcileBookmark(tx, userID, *card.ID, card.IsBookmarked); err != nil {
				return err
			}
		}

		// Inserted one by one so assigned IDs map back to their source
		// elements for bookmark creation.
		for _, card := range diff.ToAdd {
			flashcard := models.Flashcard{
				SetID:      set.ID,
				Question:   card.Question,
				Answer:     card.Answer,
				Hint:       card.Hint,
				Notes:      card.Notes,
				Difficulty: models.DifficultyFromString(card.Difficulty),
			}
			if err := tx.Create(&flashcard).Error; err != nil {
				return err
			}
			if card.IsBookmarked {
				if err := reconcileBookmark(tx, userID, flashcard.ID, true); err != nil {
					return err
				}
			}
		}

		if len(diff.ToDelete) > 0 {
			// Bookmark rows of deleted cards go too, for every user
			if err := tx.Where("flashcard_id IN ?", diff.ToDelete).
				Delete(&models.FlashcardBookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ? AND set_id = ?", diff.ToDelete, set.ID).
				Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		sc.Logger.Printf("UpdateSet: transaction failed for set %d: %v", set.ID, err)
		return utils.InternalServerError(c, "Could not update set")
	}

	return c.JSON(sc.setResponse(sc.DB, set.ID, userID))
}

// reconcileBookmark is an idempotent create-if-absent / delete-if-present,
// not a toggle. Calling it twice with the same value is a no-op.
func reconcileBookmark(tx *gorm.DB, userID, flashcardID uint, bookmarked bool) error {
	if bookmarked {
		var bookmark models.FlashcardBookmark
		err := tx.Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
			First(&bookmark).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.FlashcardBookmark{
				UserID:      userID,
				FlashcardID: flashcardID,
			}).Error
		}
		return err
	}
	return tx.Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
		Delete(&models.FlashcardBookmark{}).Error
}

// setResponse re-reads the set with its cards, each annotated with the
// caller's bookmark state. Bookmark join rows never leave the server.
func (sc *SetsController) setResponse(db *gorm.DB, setID, userID uint) fiber.Map {
	var set models.Set
	if err := db.Preload("User").
		Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
			return db.Order("flashcards.id ASC")
		}).
		First(&set, setID).Error; err != nil {
		return fiber.Map{}
	}

	bookmarked := map[uint]bool{}
	if len(set.Flashcards) > 0 {
		cardIDs := make([]uint, len(set.Flashcards))
		for i, card := range set.Flashcards {
			cardIDs[i] = card.ID
		}
		var rows []models.FlashcardBookmark
		db.Where("user_id = ? AND flashcard_id IN ?", userID, cardIDs).Find(&rows)
		for _, row := range rows {
			bookmarked[row.FlashcardID] = true
		}
	}

	cards := []fiber.Map{}
	for _, card := range set.Flashcards {
		cards = append(cards, fiber.Map{
			"id":           card.ID,
			"question":     card.Question,
			"answer":       card.Answer,
			"hint":         card.Hint,
			"notes":        card.Notes,
			"difficulty":   models.DifficultyToString(card.Difficulty),
			"isBookmarked": bookmarked[card.ID],
		})
	}

	return fiber.Map{
		"id":          set.ID,
		"title":       set.Title,
		"description": set.Description,
		"isPublic":    set.IsPublic,
		"folderId":    set.FolderID,
		"shareId":     set.ShareID,
		"createdAt":   set.CreatedAt,
		"user": fiber.Map{
			"id":    set.User.ID,
			"name":  set.User.Name,
			"image": set.User.Image,
		},
		"flashcards": cards,
	}
}
