package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/damoang/angple-contents/internal/config"
	"github.com/damoang/angple-contents/internal/migration"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/plugins"
	"github.com/damoang/angple-contents/internal/plugins/sharedcontent"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	verify := flag.Bool("verify", false, "report stored content types and flag unregistered ones")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(os.Getenv("APP_ENV"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	// 마이그레이션은 렌더링하지 않으므로 공유 콘텐츠 renderer 없이 등록
	registry := plugin.NewRegistry()
	if err := plugins.Register(registry, cfg.Contents, nil); err != nil {
		log.Fatalf("Failed to register content plugins: %v", err)
	}

	if *verify {
		runVerify(db, registry)
		return
	}

	start := time.Now()
	if err := migration.Run(db, registry, &sharedcontent.SharedContent{}, &sharedcontent.Translation{}); err != nil {
		log.Printf("[migrate] FAILED: %v", err)
		os.Exit(1)
	}
	log.Printf("[migrate] Completed %d plugin tables in %v", len(registry.Plugins()), time.Since(start))
}

func runVerify(db *gorm.DB, registry *plugin.Registry) {
	counts, err := migration.Verify(db, registry)
	if err != nil {
		log.Fatalf("[verify] FAILED: %v", err)
	}

	unknown := 0
	for _, c := range counts {
		status := "OK"
		if !c.Registered {
			status = "UNKNOWN PLUGIN"
			unknown++
		}
		log.Printf("[verify] %-40s %8d  %s", c.Type, c.Count, status)
	}
	if unknown > 0 {
		log.Printf("[verify] %d content type(s) have no registered plugin", unknown)
		os.Exit(1)
	}
	log.Println("[verify] All stored content types are registered")
}
