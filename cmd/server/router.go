package main

import (
	"context"
	"strings"
	"time"

	"notedeck/cmd/server/handlers"
	authHandlers "notedeck/cmd/server/handlers/auth"
	"notedeck/cmd/server/handlers/httperr"
	notesHandlers "notedeck/cmd/server/handlers/notes"
	tasksHandlers "notedeck/cmd/server/handlers/tasks"
	"notedeck/cmd/server/middlewares"
	"notedeck/internal/clients/mongo"
	"notedeck/internal/config"
	"notedeck/internal/logger"
	authServices "notedeck/internal/services/auth"
	notesServices "notedeck/internal/services/notes"
	tasksServices "notedeck/internal/services/tasks"
	"notedeck/internal/utils/crypto"

	_ "notedeck/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config) *fiber.App {

	// Initialize validator and register password validation
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		logger.L().Error("failed to register password validator", "err", err)
		panic(err)
	}

	// Validate JWT algorithm at boot
	alg := strings.ToUpper(cfg.JWTAlgorithm)
	switch alg {
	case "HS256":
		// Valid algorithm
	default:
		logger.L().Error(authServices.ErrUnsupportedJWTAlg.Error(), "algorithm", cfg.JWTAlgorithm)
		panic(authServices.ErrUnsupportedJWTAlg.Error() + ": " + cfg.JWTAlgorithm)
	}

	httperr.SetVerbose(!cfg.IsProduction())

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside the API group to avoid auth and rate limits
	app.Get("/healthz", handlers.Healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	rateLimiter := middlewares.BuildRateLimiter(cfg.APIRateMax, time.Duration(cfg.APIRateWindowMin)*time.Minute)

	var api fiber.Router
	if cfg.RequestLoggingEnabled {
		api = app.Group("/api", fiberlogger.New(), rateLimiter)
		logger.L().Info("request logging enabled")
	} else {
		api = app.Group("/api", rateLimiter)
		logger.L().Info("request logging disabled")
	}

	jwtMiddleware := middlewares.JWT(cfg)

	// Auth routes
	usersRepo, err := mongo.NewUsersRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error("failed to create users repository", "error", err)
		panic(err)
	}
	authSvc := authServices.NewService(usersRepo, cfg, logger.L())
	authH := authHandlers.NewHandlers(authSvc, v)

	authGrp := api.Group("/auth")
	authGrp.Post("/signup", authH.SignUp)
	authGrp.Post("/signin", authH.SignIn)

	// Notes routes
	notesRepo, err := mongo.NewNotesRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(notesServices.ErrCreateNotesRepo.Error(), "error", err)
		panic(err)
	}
	notesSvc := notesServices.NewService(notesRepo, logger.L())
	notesH := notesHandlers.NewHandlers(notesSvc, v)

	notesGrp := api.Group("/notes", jwtMiddleware)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Get("/", notesH.List)
	// registered before the :id routes so "archived" is never read as an id
	notesGrp.Get("/archived", notesH.ListArchived)
	notesGrp.Patch("/:id/pin", notesH.TogglePin)
	notesGrp.Patch("/:id/archive", notesH.ToggleArchive)
	notesGrp.Post("/:id/duplicate", notesH.Duplicate)
	notesGrp.Delete("/:id", notesH.Delete)

	// Tasks routes
	tasksRepo, err := mongo.NewTasksRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(tasksServices.ErrCreateTasksRepo.Error(), "error", err)
		panic(err)
	}
	tasksSvc := tasksServices.NewService(tasksRepo, logger.L())
	tasksH := tasksHandlers.NewHandlers(tasksSvc, v)

	tasksGrp := api.Group("/tasks", jwtMiddleware)
	tasksGrp.Post("/", tasksH.Create)
	tasksGrp.Get("/", tasksH.List)
	tasksGrp.Get("/:id", tasksH.Get)
	tasksGrp.Patch("/:id/toggle", tasksH.Toggle)
	tasksGrp.Patch("/:id/subtasks/:subTaskId/toggle", tasksH.ToggleSubTask)
	tasksGrp.Delete("/:id", tasksH.Delete)

	// User profile endpoint (for testing JWT middleware and for future use)
	api.Get("/me", jwtMiddleware, handlers.Me)

	// Terminal handler for anything no route matched
	app.Use(func(c *fiber.Ctx) error {
		return httperr.Fail(httperr.E{
			Status:  fiber.StatusNotFound,
			Message: "Route Not Found - " + c.OriginalURL(),
		})
	})

	return app
}
