package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/config"
	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/extraction"
	"github.com/xavierca1/rendetalje-leads/internal/infra/cache"
	"github.com/xavierca1/rendetalje-leads/internal/infra/database"
	"github.com/xavierca1/rendetalje-leads/internal/infra/http/handlers"
	"github.com/xavierca1/rendetalje-leads/internal/infra/integration/gemini"
	"github.com/xavierca1/rendetalje-leads/internal/infra/integration/sms"
	"github.com/xavierca1/rendetalje-leads/internal/infra/integration/telegram"
	"github.com/xavierca1/rendetalje-leads/internal/infra/logger"
	"github.com/xavierca1/rendetalje-leads/internal/infra/mail"
	"github.com/xavierca1/rendetalje-leads/internal/infra/queue"
	"github.com/xavierca1/rendetalje-leads/internal/infra/worker"
	"github.com/xavierca1/rendetalje-leads/internal/messaging"
	"github.com/xavierca1/rendetalje-leads/internal/scheduling"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}
	hours, err := cfg.WorkingHours()
	if err != nil {
		log.Fatalf("❌ Horário de trabalho inválido: %v", err)
	}

	// 1. Banco
	db, err := database.NewDBConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	leadRepo := database.NewLeadRepository(db)
	offerRepo := database.NewOfferRepository(db)
	bookingRepo := database.NewBookingRepository(db)

	// 2. Entrega direta (SMTP + SMS)
	emailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.CompanyName)
	smsClient := sms.NewClient(cfg.SMSAPIURL, cfg.SMSAPIToken, cfg.SMSSender)
	var smsSender *mail.SMSSender
	if smsClient.Configured() {
		smsSender = mail.NewSMSSender(smsClient)
	}
	direct := mail.NewDirectDispatcher(emailSender, smsSender)

	// 3. RabbitMQ (opcional): sem ele a entrega é síncrona
	var (
		dispatcher usecase.Dispatcher = direct
		rabbit     *queue.RabbitMQ
		producer   *queue.Producer
	)
	if rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL); err != nil {
		log.WithError(err).Warn("⚠️ RabbitMQ indisponível, entregando mensagens direto")
		rabbit = nil
	} else {
		defer rabbit.Close()
		producer = queue.NewProducer(rabbit.Ch)
		dispatcher = producer
	}

	// 4. Redis (opcional): dedupe de respostas
	var (
		dedupe    usecase.ReplyDeduplicator
		forgetter handlers.ReplyForgetter
		redisPing func(context.Context) error
	)
	if rdb, err := cache.NewRedisClient(cfg.RedisURL); err != nil {
		log.WithError(err).Warn("⚠️ Redis indisponível, respostas sem dedupe")
	} else {
		defer rdb.Close()
		d := cache.NewReplyDeduplicator(rdb, cfg.DedupeTTL)
		dedupe, forgetter = d, d
		redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// 5. Escalonamento humano (opcional)
	var escalator usecase.Escalator
	if cfg.TelegramBotToken != "" {
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.WithError(err).Warn("⚠️ Telegram indisponível, escalonamentos só no log")
		} else {
			escalator = notifier
		}
	}

	// 6. Domínio
	var provider extraction.Provider
	if cfg.GeminiAPIKey != "" {
		provider = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Warn("⚠️ GEMINI_API_KEY ausente, extração só por heurística")
	}
	extractor := extraction.NewExtractor(provider, cfg.DefaultHours)

	generator, err := scheduling.NewGenerator(hours)
	if err != nil {
		log.Fatal(err)
	}
	composer := messaging.NewComposer(cfg.Company(), nil)
	pricing := entity.NewPriceCalculator(cfg.HourlyRate, cfg.VATRate)

	// 7. UseCases
	sendOfferUC := usecase.NewSendOfferUseCase(leadRepo, offerRepo, bookingRepo, generator, pricing, composer, dispatcher, escalator, cfg.OfferTTL)
	processEmailUC := usecase.NewProcessLeadEmailUseCase(leadRepo, extractor, sendOfferUC, cfg.HourlyRate)
	formLeadUC := usecase.NewCreateFormLeadUseCase(leadRepo, sendOfferUC, cfg.HourlyRate, cfg.DefaultHours)
	handleReplyUC := usecase.NewHandleReplyUseCase(leadRepo, offerRepo, bookingRepo, composer, dispatcher, escalator, dedupe, cfg.HourlyRate, loc)
	cancelBookingUC := usecase.NewCancelBookingUseCase(leadRepo, bookingRepo)
	updateBookingUC := usecase.NewUpdateBookingStatusUseCase(leadRepo, bookingRepo)
	transitionUC := usecase.NewTransitionLeadUseCase(leadRepo, bookingRepo)
	remindersUC := usecase.NewSendRemindersUseCase(bookingRepo, composer, dispatcher, loc)
	expireOffersUC := usecase.NewExpireOffersUseCase(offerRepo)

	// 8. Workers
	if rabbit != nil {
		w := queue.NewWorker(rabbit.Ch, direct, handleReplyUC, forgetter)
		for _, name := range []string{queue.OutboundQueue, queue.RepliesQueue} {
			go func(name string) {
				if err := w.Start(ctx, name); err != nil {
					log.WithError(err).Error("❌ Worker da fila parou")
				}
			}(name)
		}
	}
	go worker.NewOfferExpirationWorker(expireOffersUC, cfg.ExpirationInterval).Start(ctx)
	go worker.NewReminderWorker(remindersUC, cfg.ReminderInterval).Start(ctx)

	// 9. Handlers
	// nil de verdade quando não tem RabbitMQ, não (*amqp.Connection)(nil)
	var rabbitConn interface{ IsClosed() bool }
	if rabbit != nil {
		rabbitConn = rabbit.Conn
	}
	health := handlers.NewHealthHandler(db, rabbitConn, redisPing, provider != nil)

	replyHandler := handlers.NewReplyHandler(handleReplyUC, forgetter, cfg.WebhookSecret)
	if producer != nil {
		replyHandler.WithRetryQueue(producer)
	}

	router := newRouter(routes{
		leads: handlers.NewLeadHandler(processEmailUC, formLeadUC, sendOfferUC, transitionUC,
			leadRepo, offerRepo, bookingRepo, cfg.FormRateLimit),
		replies:  replyHandler,
		bookings: handlers.NewBookingHandler(cancelBookingUC, updateBookingUC),
		health:   health,
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // extração por IA pode demorar
	}

	go func() {
		log.Infof("🔥 Server Rendetalje Leads rodando na porta %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("⚠️ Desligando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Shutdown forçado")
	}
}
