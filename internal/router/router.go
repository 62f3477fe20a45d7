package router

import (
	"errors"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/handlers"
	"github.com/anonto42/yatube/backend/internal/media"
	"github.com/anonto42/yatube/backend/internal/metrics"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/anonto42/yatube/backend/internal/validators"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories groups the storage backends the services run on.
type Repositories struct {
	Users    repositories.UserRepository
	Groups   repositories.GroupRepository
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Follows  repositories.FollowRepository
}

// NewPostgresRepositories migrates the schema and returns gorm-backed repositories.
func NewPostgresRepositories(db *gorm.DB, logger *zap.Logger) (Repositories, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return Repositories{}, err
	}
	logger.Info("PostgreSQL auto-migrations completed")

	return Repositories{
		Users:    repositories.NewPostgresUserRepository(db),
		Groups:   repositories.NewPostgresGroupRepository(db),
		Posts:    repositories.NewPostgresPostRepository(db),
		Comments: repositories.NewPostgresCommentRepository(db),
		Follows:  repositories.NewPostgresFollowRepository(db),
	}, nil
}

// NewMemoryRepositories returns repositories over one shared in-memory store.
func NewMemoryRepositories() Repositories {
	store := repositories.NewMemoryStore()
	return Repositories{Users: store, Groups: store, Posts: store, Comments: store, Follows: store}
}

// Deps is everything SetupRoutes wires together.
type Deps struct {
	Repos  Repositories
	Images media.ImageStore
	// Cache may be nil to serve the global feed uncached.
	Cache  *cache.FeedCache
	Config *config.Config
	// Firebase may be nil; Firebase login and AUTH_MODE=firebase then fail.
	Firebase firebase.TokenVerifier
	Logger   *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(logger)
	e.Validator = validators.NewValidator()
	e.Use(eMiddleware.RequestID())
	e.Use(config.RequestLogger(logger))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Debug("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) error {
	log := deps.Logger
	cfg := deps.Config

	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", metrics.Handler())

	// --- Services ---
	r := deps.Repos
	feedService := services.NewFeedService(r.Posts, r.Groups, r.Users, r.Follows, r.Comments, deps.Cache, log)
	postService := services.NewPostService(r.Posts, r.Groups, deps.Images, deps.Cache, cfg.MaxImageBytes, log)
	commentService := services.NewCommentService(r.Comments, r.Posts, log)
	followService := services.NewFollowService(r.Follows, r.Users, log)
	groupService := services.NewGroupService(r.Groups, deps.Cache, log)
	userService := services.NewUserService(r.Users, deps.Cache, log)

	// --- Viewer resolution ---
	api := e.Group(handlers.APIPrefix)
	switch cfg.AuthMode {
	case "firebase":
		if deps.Firebase == nil {
			return errors.New("AUTH_MODE=firebase requires FIREBASE_CREDENTIALS_PATH")
		}
		api.Use(middleware.FirebaseAuthMiddleware(deps.Firebase, userService))
	default:
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, userService))
	}
	requireViewer := middleware.RequireViewer(cfg.LoginURL)
	log.Info("viewer middleware applied", zap.String("auth_mode", cfg.AuthMode))

	handlers.NewAuthHandler(userService, deps.Firebase, cfg.JWTSecret).RegisterAuthRoutes(api.Group("/auth"))
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api, requireViewer)
	handlers.NewPostHandler(postService, cfg.MaxImageBytes).RegisterPostRoutes(api, requireViewer)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api, requireViewer)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api, requireViewer)
	handlers.NewGroupHandler(groupService).RegisterGroupRoutes(api, requireViewer)
	handlers.NewUserHandler(userService).RegisterProfileRoutes(api, requireViewer)
	handlers.NewMediaHandler(deps.Images).RegisterMediaRoutes(api)

	log.Info("all routes configured")
	return nil
}
