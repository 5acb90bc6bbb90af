package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/autoleads/internal/config"
	"github.com/xavierca1/autoleads/internal/infra/database"
	"github.com/xavierca1/autoleads/internal/infra/http/handlers"
	"github.com/xavierca1/autoleads/internal/infra/integration/gemini"
	"github.com/xavierca1/autoleads/internal/infra/integration/kommo"
	"github.com/xavierca1/autoleads/internal/infra/integration/whatsapp"
	"github.com/xavierca1/autoleads/internal/infra/mail"
	"github.com/xavierca1/autoleads/internal/infra/parser"
	"github.com/xavierca1/autoleads/internal/infra/queue"
	"github.com/xavierca1/autoleads/internal/usecase"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Store + sessão (sem os dados salvos não sobe)
	store, err := database.Open(ctx, database.Options{
		Driver:        cfg.Store.Driver,
		FileDir:       cfg.Store.DataDir,
		PostgresDSN:   cfg.Store.PostgresDSN,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		RedisPrefix:   cfg.Store.RedisPrefix,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
	})
	if err != nil {
		log.Fatalf("❌ Falha ao abrir store %s: %v", cfg.Store.Driver, err)
	}
	defer store.Close()

	session := usecase.NewSession(database.NewLeadRepository(store))
	if err := session.Load(ctx); err != nil {
		log.Fatalf("❌ Falha ao carregar dados salvos: %v", err)
	}
	log.Printf("📦 Store %s: %d leads carregados", cfg.Store.Driver, session.Count())

	// 2. Gateways e Adapters
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	if !geminiClient.Configured() {
		log.Println("⚠️ GEMINI_API_KEY não configurada: /analyze vai falhar")
	}

	kommoClient := kommo.NewClient(cfg.Kommo.APIToken, cfg.Kommo.BaseURL, cfg.Kommo.StatusID)
	waClient := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.BaseURL)
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)

	// 3. Fila + Worker (opcionais)
	var events usecase.LeadEventPublisher
	var broker handlers.BrokerStatus
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.Printf("⚠️ RabbitMQ indisponível, eventos desligados: %v", err)
		} else {
			defer rabbitMQ.Close()
			events = queue.NewProducer(rabbitMQ.Ch)
			broker = rabbitMQ

			if kommoClient.Configured() {
				worker := queue.NewWorker(rabbitMQ.Ch, kommoClient)
				go func() {
					if err := worker.Start(ctx, queue.QueueName); err != nil {
						log.Printf("❌ [WORKER] %v", err)
					}
				}()
			}
		}
	}

	var emailService usecase.EmailService
	if mailSender.Configured() {
		emailService = mailSender
	}
	var waService usecase.WhatsAppService
	if waClient.Configured() {
		waService = mail.NewWhatsAppSender(waClient)
	}

	// 4. UseCases
	analyzeUC := usecase.NewAnalyzeContentUseCase(session, geminiClient, usecase.NewDeduplicator(), parser.NewHTMLCleaner(), events)
	leadsUC := usecase.NewLeadsUseCase(session)
	exportUC := usecase.NewExportLeadsUseCase(session, emailService, cfg.Export.DateLayout, cfg.Export.Location())
	outreachUC := usecase.NewOutreachUseCase(session, waService)
	profileUC := usecase.NewProfileUseCase(session)

	// 5. Handlers + Router
	leadHandler := handlers.NewLeadHandler(analyzeUC, leadsUC, exportUC, outreachUC, cfg.Server.RateLimit)
	defer leadHandler.Close()

	router := newRouter(routes{
		Leads:   leadHandler,
		Profile: handlers.NewProfileHandler(profileUC),
		Health: handlers.NewHealthHandler(store, cfg.Store.Driver, broker, map[string]bool{
			"gemini":   geminiClient.Configured(),
			"smtp":     mailSender.Configured(),
			"whatsapp": waClient.Configured(),
			"kommo":    kommoClient.Configured(),
		}),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Server AutoLeads rodando na porta %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}
