package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/damoang/angple-contents/internal/config"
	"github.com/damoang/angple-contents/internal/handler"
	"github.com/damoang/angple-contents/internal/middleware"
	"github.com/damoang/angple-contents/internal/migration"
	"github.com/damoang/angple-contents/internal/owner"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/plugins"
	"github.com/damoang/angple-contents/internal/plugins/sharedcontent"
	"github.com/damoang/angple-contents/internal/repository"
	"github.com/damoang/angple-contents/internal/routes"
	"github.com/damoang/angple-contents/internal/service"
	pkgcache "github.com/damoang/angple-contents/pkg/cache"
	"github.com/damoang/angple-contents/pkg/i18n"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	pkgredis "github.com/damoang/angple-contents/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

// @title           Angple Contents API
// @version         1.0
// @description     Placeholder / content item service (plugin content types, shared content)
// @license.name    MIT
// @host            localhost:8090
// @BasePath        /api/v1
func main() {
	dotenvFiles := config.LoadDotEnv(os.Getenv("APP_ENV"))

	// 로거 초기화 (.env 에서 APP_ENV/LOG_LEVEL 을 읽을 수 있으므로 dotenv 다음)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(pkglogger.Options{Env: env, Level: os.Getenv("LOG_LEVEL")})
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("starting angple-contents")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)
	i18n.SetDefault(i18n.Normalize(cfg.Contents.DefaultLanguage))

	// MySQL 연결 (플레이스홀더 저장소는 DB 없이 동작할 수 없음)
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Msg("Connected to MySQL")

	// Redis 연결 (없으면 캐시 없이 동작)
	var cacheService pkgcache.Service
	redisClient, err := pkgredis.NewClient(context.Background(), pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis (continuing without output cache)")
	} else {
		logger.Info().Msg("Connected to Redis")
		cacheService = pkgcache.NewService(redisClient)
	}

	// Registries
	registry := plugin.NewRegistry()
	owners := owner.NewRegistry()
	eventBus := plugin.NewEventBus(plugin.NewDefaultLogger("eventbus"))

	// Repositories
	placeholderRepo := repository.NewPlaceholderRepository(db)
	itemRepo := repository.NewContentItemRepository(db)
	sharedRepo := sharedcontent.NewRepository(db)

	// Services
	var cacheStore service.CacheStore
	if cacheService != nil {
		cacheStore = cacheService
	}
	invalidator := service.NewCacheInvalidator(registry, placeholderRepo, cacheStore)
	placeholderService := service.NewPlaceholderService(db, placeholderRepo, itemRepo, registry, owners)
	itemService := service.NewContentItemService(db, itemRepo, placeholderRepo, registry, owners, invalidator, cfg.Contents.DefaultLanguage)
	renderService := service.NewRenderService(placeholderService, registry, cacheService)
	sharedService := sharedcontent.NewService(db, sharedRepo, placeholderService, itemService, renderService, eventBus, cfg.Contents.SiteID)

	// 콘텐츠 플러그인 + 소유 엔티티 등록
	if err := plugins.Register(registry, cfg.Contents, sharedService); err != nil {
		log.Fatalf("Failed to register content plugins: %v", err)
	}
	owners.Register(sharedcontent.OwnerType, sharedcontent.NewOwnerResolver(sharedRepo, cfg.Contents.DefaultLanguage))
	service.NewTranslationReactor(itemService).Subscribe(eventBus)
	logger.Info().Int("plugins", len(registry.Plugins())).Interface("subscriptions", eventBus.GetSubscriptions()).Msg("content plugins registered")

	if err := migration.Run(db, registry, &sharedcontent.SharedContent{}, &sharedcontent.Translation{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Handlers
	placeholderHandler := handler.NewPlaceholderHandler(placeholderService, itemService, registry)
	itemHandler := handler.NewItemHandler(itemService, placeholderService, registry)
	sharedContentHandler := handler.NewSharedContentHandler(sharedService)

	// Gin 라우터 설정
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Language", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.I18n())

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "time": time.Now().Unix()}
		if cacheService != nil {
			status["cache"] = cacheService.Ping(c.Request.Context()) == nil
		}
		c.JSON(http.StatusOK, status)
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 메트릭 (DB 핸들을 못 얻으면 풀 게이지 없이 노출)
	sqlDB, _ := db.DB()
	router.GET("/metrics", middleware.MetricsHandler(sqlDB))

	routes.Setup(router, placeholderHandler, itemHandler, sharedContentHandler)

	// 서버 시작
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("Server listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB MySQL 연결 초기화
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+09:00'"

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	db.Exec("SET NAMES utf8mb4")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
