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

type FoldersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewFoldersController(db *gorm.DB, cfg *config.Config) *FoldersController {
	return &FoldersController{DB: db, Cfg: cfg}
}

func (fc *FoldersController) CreateFolder(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type FolderInput struct {
		Name string `json:"name"`
	}

	var input FolderInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" {
		return utils.BadRequest(c, "Folder name is required")
	}

	folder := models.Folder{
		Name:   input.Name,
		UserID: userID,
	}
	if err := fc.DB.Create(&folder).Error; err != nil {
		return utils.InternalServerError(c, "Could not create folder")
	}

	return c.Status(fiber.StatusCreated).JSON(folderResponse(folder, 0))
}

func (fc *FoldersController) GetFolders(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var folders []models.Folder
	if err := fc.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&folders).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, folder := range folders {
		var setsCount int64
		fc.DB.Model(&models.Set{}).Where("folder_id = ?", folder.ID).Count(&setsCount)
		result = append(result, folderResponse(folder, setsCount))
	}

	return c.JSON(result)
}

func (fc *FoldersController) GetFolder(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	folderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid folder ID")
	}

	var folder models.Folder
	if err := fc.DB.First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Folder not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if folder.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to access this folder")
	}

	var setsCount int64
	fc.DB.Model(&models.Set{}).Where("folder_id = ?", folder.ID).Count(&setsCount)

	return c.JSON(folderResponse(folder, setsCount))
}

// DeleteFolder dissociates the folder's sets rather than deleting them.
func (fc *FoldersController) DeleteFolder(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	folderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid folder ID")
	}

	var folder models.Folder
	if err := fc.DB.First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Folder not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if folder.UserID != userID {
		return utils.Forbidden(c, "You do not have permission to delete this folder")
	}

	err = fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Set{}).Where("folder_id = ?", folder.ID).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&folder).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete folder")
	}

	return c.JSON(fiber.Map{"message": "Folder deleted"})
}

func folderResponse(folder models.Folder, setsCount int64) fiber.Map {
	return fiber.Map{
		"id":        folder.ID,
		"name":      folder.Name,
		"userId":    folder.UserID,
		"setsCount": setsCount,
		"createdAt": folder.CreatedAt,
	}
}
