package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suavebarber/booking-core/internal/config"
	"github.com/suavebarber/booking-core/internal/db"
	"github.com/suavebarber/booking-core/internal/httpapi"
	"github.com/suavebarber/booking-core/internal/model"
	"github.com/suavebarber/booking-core/internal/notify"
	"github.com/suavebarber/booking-core/internal/repository"
	"github.com/suavebarber/booking-core/internal/service"
	"github.com/suavebarber/booking-core/internal/verify"
)

func main() {
	// 1. Загружаем конфиг из env.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg.DB)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	barberRepo := repository.NewGormBarberRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	overrideRepo := repository.NewGormOverrideRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	notificationRepo := repository.NewGormNotificationRepository(gormDB)

	// 5. Почта и нотификатор жизненного цикла.
	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	notifier := notify.NewService(notificationRepo, userRepo, barberRepo, slotRepo, mailer)

	// 6. Сервисы движка.
	availabilitySvc := service.NewAvailabilityService(barberRepo, slotRepo, overrideRepo, bookingRepo)
	bookingSvc := service.NewBookingService(gormDB, bookingRepo, availabilitySvc, notifier)
	scheduleSvc := service.NewScheduleService(barberRepo, slotRepo, overrideRepo, bookingRepo)

	// 7. Redis для кодов подтверждения.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	codes := verify.NewCodeStore(rdb, time.Duration(cfg.CodeTTLMin)*time.Minute)

	// 8. HTTP-сервер.
	api := httpapi.New(availabilitySvc, bookingSvc, scheduleSvc, notificationRepo, codes, mailer)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.Router(),
	}

	log.Printf("booking core listening on %s", cfg.HTTP.Addr)

	// 9. Запускаем сервер в горутине.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	// 10. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
