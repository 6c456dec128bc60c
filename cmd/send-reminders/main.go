package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/di"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/internal/service"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	mintToken := flag.Bool("mint-token", false, "print an admin token for POST /admin/send-reminders and exit")
	subject := flag.String("subject", "send-reminders", "subject of the minted token")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *mintToken {
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET is not set, admin routes are open")
		}
		token, err := middleware.IssueAdminToken(cfg.JWT.Secret, cfg.JWT.Issuer, *subject, cfg.JWT.TokenTTL)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.LogLevel(),
		ServiceName: "send-reminders",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := metrics.Init(); err != nil {
		appLog.Warn("Metrics init failed", zap.Error(err))
	}

	store, closeStore, err := di.OpenStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("Store connection failed", zap.Error(err))
	}
	defer closeStore()

	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: "send-reminders",
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, using no-op publisher", zap.Error(err))
		} else {
			eventPublisher = kafkaPublisher
		}
	}
	defer eventPublisher.Close()

	reminders := service.NewReminderService(
		store,
		service.NewNotificationLogger(store.Emails, nil),
		eventPublisher,
		&service.ReminderServiceConfig{Window: cfg.Booking.ReminderWindow},
	)

	count, err := reminders.SendReminders(ctx)
	if err != nil {
		appLog.Error("Sending reminders failed", zap.Int("reminders_created", count), zap.Error(err))
		exitCode = 1
		return
	}

	fmt.Printf("reminders_created=%d\n", count)
}
