package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/cache"
	"orbit-hr-backend/internal/event"
	"orbit-hr-backend/internal/handler"
	"orbit-hr-backend/internal/logger"
	"orbit-hr-backend/internal/mailer"
	"orbit-hr-backend/internal/middleware"
	"orbit-hr-backend/internal/routes"
	"orbit-hr-backend/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	fmt.Println("1. Starting orbit-hr-backend... loading .env")
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env not found, using system environment variables.")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	fmt.Println("2. Connecting to the database...")
	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Println("3. Database connected! Wiring services...")

	events, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer events.Close()

	uploadDir := config.GetEnv("UPLOAD_DIR", "./uploads")
	svc, err := routes.NewServices(routes.Deps{
		DB:        db,
		Config:    cfg,
		Cache:     cache.NewMemory(),
		Events:    events,
		Mailer:    mailer.New(cfg.SMTP),
		Log:       log,
		UploadDir: uploadDir,
	})
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{BodyLimit: handler.MaxRequestBody})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))
	app.Use(fiberlogger.New())
	app.Use(middleware.SecurityHeaders())

	// Uploaded resumes, e.g. http://localhost:3000/uploads/resumes/...
	app.Static("/uploads", uploadDir)

	routes.Setup(app, svc)

	sweep := scheduler.New(svc.Attendance, cfg.Attendance.AutoClockOutCron, loc, log)
	if err := sweep.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("4. Server ready! Listening on %s\n", cfg.Addr())
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sweep.Stop(shutdownCtx)
		return app.ShutdownWithContext(shutdownCtx)
	})
	return g.Wait()
}

// newPublisher connects to Kafka when brokers are configured.
func newPublisher(cfg config.KafkaConfig, log zerolog.Logger) (event.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info().Msg("kafka brokers not configured, events are discarded")
		return event.Nop{}, nil
	}
	sp, err := event.NewSyncProducer(cfg.Brokers, cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return event.NewProducer(sp, event.ProducerConfig{
		TopicAttendance: cfg.TopicAttendance,
		TopicStages:     cfg.TopicStages,
		Source:          cfg.ClientID,
	}, log), nil
}
