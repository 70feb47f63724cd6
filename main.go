package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/maarg/internal/actions"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/config"
	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/events"
	"github.com/muhammadolammi/maarg/internal/identity"
	"github.com/muhammadolammi/maarg/internal/interview"
	"github.com/muhammadolammi/maarg/internal/metrics"
	"github.com/muhammadolammi/maarg/internal/server"
	"github.com/muhammadolammi/maarg/internal/storage"
	"github.com/streadway/amqp"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("error migrating db. err: ", err)
	}
	dbqueries := database.New(db)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}

	recorder := metrics.NewRecorder()
	adv, err := GetAdvisor(ctx, cfg, cat, recorder)
	if err != nil {
		log.Fatal(err)
	}
	budget, err := actions.NewBudget(cfg.MaxInputTokens)
	if err != nil {
		log.Fatal(err)
	}

	r2, err := storage.NewR2(ctx, cfg.R2)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		log.Println("R2 is not configured; document and photo uploads are disabled")
	case err != nil:
		log.Fatal(err)
	}

	var (
		conn      *amqp.Connection
		publisher *events.Publisher
	)
	if cfg.RabbitMQURL != "" {
		conn, err = amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
		}
		defer conn.Close()
		if err := events.Declare(conn); err != nil {
			log.Fatal(err)
		}
		publisher = events.NewPublisher(conn)
	} else {
		log.Println("RABBITMQ_URL is empty; session updates and document analysis are disabled")
	}

	sessions := database.NewRecorder(dbqueries, 5*time.Second)
	broadcaster := server.NewBroadcaster()
	transitions := recorder.InterviewListener()
	hub := interview.NewHub(func(userID string) *interview.Controller {
		opts := []interview.Option{
			interview.WithPacing(cfg.Interview.Pacing),
			interview.WithRoleCheck(cat.HasRole),
			interview.WithListener(sessions.Listener(userID)),
			interview.WithListener(transitions),
			interview.WithListener(broadcaster.Listener(userID)),
		}
		if publisher != nil {
			opts = append(opts, interview.WithListener(publisher.InterviewListener()))
		}
		return interview.New(adv, opts...)
	}, cfg.Interview.IdleTTL)
	go hub.Run(ctx, time.Minute)
	go trackActiveSessions(ctx, hub, recorder)

	deps := server.Deps{
		Actions:      actions.New(adv, cat, budget),
		Hub:          hub,
		Broadcaster:  broadcaster,
		Catalog:      cat,
		Auth:         identity.NewSessions(cfg.Interview.IdleTTL),
		Store:        dbqueries,
		Metrics:      recorder.Handler(),
		Health:       db.PingContext,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
		CookieSecure: cfg.CookieSecure,
		Debug:        cfg.Debug,
	}
	if r2 != nil {
		deps.Objects = r2
	}
	if publisher != nil {
		deps.Jobs = publisher
	}
	app := server.New(deps)

	if conn != nil && r2 != nil {
		workerConfig := &WorkerConfig{
			DB:         dbqueries,
			Objects:    r2,
			Analyzer:   adv,
			Publisher:  publisher,
			Metrics:    recorder,
			RabbitConn: conn,
			Backoff:    cfg.LLM.Backoff,
			Timeout:    5 * time.Minute,
		}
		fmt.Printf("Starting %d workers consumer pool\n", cfg.Workers)
		go workerConfig.StartConsumerWorkerPool(ctx, cfg.Workers)
	}

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}

func trackActiveSessions(ctx context.Context, hub *interview.Hub, recorder *metrics.Recorder) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		recorder.SetActiveInterviews(hub.Len())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
