package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/team-final-project-3/be-temucs-sub000/internal/app"
	"github.com/team-final-project-3/be-temucs-sub000/internal/holiday"
	"github.com/team-final-project-3/be-temucs-sub000/internal/jobs"
	"github.com/team-final-project-3/be-temucs-sub000/internal/metrics"
	"github.com/team-final-project-3/be-temucs-sub000/internal/notify"
	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
	"github.com/team-final-project-3/be-temucs-sub000/internal/server"
	"github.com/team-final-project-3/be-temucs-sub000/internal/store"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL required")
	}
	pool, err := store.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	branches := store.NewBranchStore(pool)
	roster := store.NewAgentRoster(pool)
	catalog := store.NewServiceCatalog(pool)
	tickets := store.NewTicketStore(pool)

	opts := []scheduling.Option{scheduling.WithLogger(logger)}

	// Event publishing is optional: without a broker the service still
	// books tickets, it just emits nothing.
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		exchange := os.Getenv("AMQP_EXCHANGE")
		if exchange == "" {
			exchange = "temucs.events"
		}
		pub, err := notify.NewPublisher(ctx, notify.DialOptions{
			URL:      amqpURL,
			Exchange: exchange,
			Logger:   logger,
		})
		if err != nil {
			log.Fatalf("failed to connect to broker: %v", err)
		}
		defer pub.Close()
		opts = append(opts, scheduling.WithNotifier(notify.NewTicketEvents(pub)))
	}

	scheduler := scheduling.NewScheduler(branches, roster, catalog, tickets, opts...)

	// Holiday reschedule job, enabled when a holiday calendar is set.
	if calendarID := os.Getenv("HOLIDAY_CALENDAR_ID"); calendarID != "" {
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			log.Fatal("GOOGLE_API_KEY required with HOLIDAY_CALENDAR_ID")
		}
		oracle, err := holiday.NewCalendarOracle(ctx, apiKey, calendarID)
		if err != nil {
			log.Fatalf("failed to init holiday oracle: %v", err)
		}
		cached := holiday.NewCache(oracle, holiday.DefaultRefresh)
		job := jobs.NewRescheduler(branches, tickets, cached, scheduler, logger)
		go job.Run(ctx, 24*time.Hour)
	}

	appInstance := &app.App{Scheduler: scheduler, Tickets: tickets, Log: logger}

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	router.Use(app.AuthMiddlewareFromEnv())

	api := router.Group("/api")
	{
		branchesGroup := api.Group("/branches")
		{
			branchesGroup.POST("/:id/tickets", appInstance.CreateTicketHandler)
			branchesGroup.GET("/:id/tickets", appInstance.ListBranchDayHandler)
		}
		ticketsGroup := api.Group("/tickets")
		{
			ticketsGroup.GET("/:id", appInstance.GetTicketHandler)
			ticketsGroup.PATCH("/:id/status", appInstance.UpdateStatusHandler)
		}
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server.Run(router, addr)
}
