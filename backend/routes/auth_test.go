package routes

import (
	"testing"

	"quiznest/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegisterCreatesUserAndStats(t *testing.T) {
	status, body := doJSON(t, app, jsonRequest("POST", "/api/auth/register", "", fiber.Map{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "password123",
	}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Carol", user["name"])
	assert.Equal(t, "carol@example.com", user["email"])

	// A zeroed stats row is created alongside the account
	var stats models.UserStats
	err := db.Where("user_id = ?", uint(user["id"].(float64))).First(&stats).Error
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSets)
	assert.Equal(t, 1, stats.Level)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	status, body := doJSON(t, app, jsonRequest("POST", "/api/auth/register", "", fiber.Map{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password123",
	}))

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email already exists", body["message"])
}

func TestRegisterRequiresAllFields(t *testing.T) {
	status, _ := doJSON(t, app, jsonRequest("POST", "/api/auth/register", "", fiber.Map{
		"name":  "No Password",
		"email": "nopassword@example.com",
	}))

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginStartsStudyStreak(t *testing.T) {
	userID, _ := registerUser(t, "Dave", "dave@example.com")

	status, body := doJSON(t, app, jsonRequest("POST", "/api/auth/login", "", fiber.Map{
		"email":    "dave@example.com",
		"password": "password123",
	}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	var stats models.UserStats
	assert.NoError(t, db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 1, stats.StudyStreak)
	assert.NotNil(t, stats.LastStudyDate)

	var user models.User
	assert.NoError(t, db.First(&user, userID).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	status, _ := doJSON(t, app, jsonRequest("POST", "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "not-the-password",
	}))

	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	status, _ := doJSON(t, app, jsonRequest("POST", "/api/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": "password123",
	}))

	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProfileRequiresToken(t *testing.T) {
	status, _ := doJSON(t, app, jsonRequest("GET", "/api/user/profile", "", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProfileRoundTrip(t *testing.T) {
	_, token := registerUser(t, "Erin", "erin@example.com")

	status, body := doJSON(t, app, jsonRequest("GET", "/api/user/profile", token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Erin", body["name"])
	assert.Equal(t, "erin@example.com", body["email"])

	status, _ = doJSON(t, app, jsonRequest("PUT", "/api/user/profile", token, fiber.Map{
		"name": "Erin Renamed",
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, jsonRequest("PUT", "/api/user/profile", token, fiber.Map{
		"name":  "Erin Renamed",
		"email": "erin@example.com",
		"image": "https://example.com/erin.png",
	}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Erin Renamed", body["name"])
	assert.Equal(t, "https://example.com/erin.png", body["image"])
}
