package controllers

import (
	"errors"
	"time"

	"quiznest/backend/config"
	"quiznest/backend/models"
	"quiznest/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Name, email and password are required")
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "Email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	// New accounts get a zeroed stats row up front
	stats := models.DefaultUserStats(user.ID)
	ac.DB.Create(&stats)

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	now := time.Now()
	user.LastLogin = &now
	ac.DB.Save(&user)

	ac.touchStudyStreak(user.ID, now)

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"image": user.Image,
		},
	})
}

// touchStudyStreak keeps the streak alive when the user comes back within
// 48 hours of their last recorded study day, otherwise restarts it.
func (ac *AuthController) touchStudyStreak(userID uint, now time.Time) {
	var stats models.UserStats
	if err := ac.DB.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats = models.DefaultUserStats(userID)
			stats.StudyStreak = 1
			stats.LastStudyDate = &now
			ac.DB.Create(&stats)
		}
		return
	}

	if stats.LastStudyDate != nil && now.Sub(*stats.LastStudyDate) < 48*time.Hour {
		if stats.LastStudyDate.YearDay() != now.YearDay() || stats.LastStudyDate.Year() != now.Year() {
			stats.StudyStreak++
		}
	} else {
		stats.StudyStreak = 1
	}
	stats.LastStudyDate = &now
	ac.DB.Save(&stats)
}
