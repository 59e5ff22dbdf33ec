package routes

import (
	"log"

	"quiznest/backend/config"
	"quiznest/backend/controllers"
	"quiznest/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Stats and achievements
	statsController := controllers.NewStatsController(db, cfg)
	app.Get("/api/users/stats", authMiddleware, statsController.GetStats)

	achievementsController := controllers.NewAchievementsController(db, cfg)
	app.Get("/api/achievements/recent", authMiddleware, achievementsController.GetRecentAchievements)

	// Folder routes
	foldersController := controllers.NewFoldersController(db, cfg)
	folders := app.Group("/api/folders", authMiddleware)
	folders.Post("/", foldersController.CreateFolder)
	folders.Get("/", foldersController.GetFolders)
	folders.Get("/:id", foldersController.GetFolder)
	folders.Delete("/:id", foldersController.DeleteFolder)

	// Set routes
	setsController := controllers.NewSetsController(db, cfg, logger)
	sets := app.Group("/api/sets", authMiddleware)
	sets.Post("/", setsController.CreateSet)
	sets.Get("/", setsController.GetUserSets)
	sets.Get("/recent", setsController.GetRecentSets)
	sets.Get("/:id", setsController.GetSet)
	sets.Put("/:id", setsController.UpdateSet)
	sets.Delete("/:id", setsController.DeleteSet)
	sets.Post("/:id/folder", setsController.AddSetToFolder)
	sets.Delete("/:id/folder", setsController.RemoveSetFromFolder)

	// Flashcard bookmark toggle (targeted mastery write)
	bookmarksController := controllers.NewBookmarksController(db, cfg)
	app.Put("/api/flashcards/:id/bookmark", authMiddleware, bookmarksController.SetBookmark)

	// Translation proxy for the create-set UI
	translateController := controllers.NewTranslateController()
	app.Post("/api/translate", authMiddleware, translateController.Translate)
}
