package service

import (
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"locallink/internal/config"
	"locallink/internal/pkg/cache"
	"locallink/internal/repository"
	"locallink/internal/service/auth"
	"locallink/internal/service/business"
	"locallink/internal/service/connection"
	"locallink/internal/service/email"
	"locallink/internal/service/message"
	"locallink/internal/service/notification"
	"locallink/internal/service/order"
	"locallink/internal/service/product"
	"locallink/internal/service/qrcode"
	"locallink/internal/service/review"
	"locallink/internal/service/storage"
)

type Services struct {
	Auth         auth.Service
	Business     business.Service
	Product      product.Service
	Order        order.Service
	Connection   connection.Service
	Message      message.Service
	Review       review.Service
	Notification notification.Service
	Email        email.Service
	Dispatcher   *notification.Dispatcher
}

func NewServices(repos *repository.Repositories, tm repository.TransactionManager, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config, logger *slog.Logger) *Services {
	c := cache.New(redisClient, cfg.CacheTTL)
	store := storage.NewStore(minioClient, cfg)
	qr := qrcode.NewService(cfg.QRCodeSize, cfg.QRCodeLevel)

	dispatcher := notification.NewDispatcher(tm, repos.Outbox, c, logger, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxMaxAttempts)

	emailService := email.NewService(cfg, logger)
	authService := auth.NewService(repos.Business, repos.Session, emailService, cfg, logger)

	return &Services{
		Auth:         authService,
		Business:     business.NewService(repos.Business, store, c, logger),
		Product:      product.NewService(repos.Product, repos.Business, store),
		Order:        order.NewService(repos, tm, qr, dispatcher, logger),
		Connection:   connection.NewService(repos, tm, dispatcher),
		Message:      message.NewService(repos, tm, dispatcher),
		Review:       review.NewService(repos, tm, c, dispatcher, logger),
		Notification: notification.NewService(repos.Notification, c),
		Email:        emailService,
		Dispatcher:   dispatcher,
	}
}
