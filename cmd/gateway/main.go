package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	api "github.com/nurseconnect/lms/internal/api/http"
	"github.com/nurseconnect/lms/internal/attempt"
	auth "github.com/nurseconnect/lms/internal/auth/middleware"
	"github.com/nurseconnect/lms/internal/cache"
	"github.com/nurseconnect/lms/internal/config"
	"github.com/nurseconnect/lms/internal/db"
	"github.com/nurseconnect/lms/internal/directory"
	"github.com/nurseconnect/lms/internal/events"
	"github.com/nurseconnect/lms/internal/material"
	"github.com/nurseconnect/lms/internal/quiz"
	"github.com/nurseconnect/lms/internal/stats"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	dir := directory.NewSQLStore(dbh)
	attempts := attempt.NewSQLStore(dbh)
	quizzes := quiz.NewSQLStore(dbh, attempts.DeleteByQuizTx)
	materials := material.NewSQLStore(dbh)

	if cfg.SeedAdmin {
		if err := dir.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassHash); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}

	// --- Statistics cache (optional) ---
	var statsCache stats.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StatsCacheTTL)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("redis %s unavailable, statistics are not cached: %v", cfg.RedisAddr, err)
			_ = rc.Close()
		} else {
			defer rc.Close()
			statsCache = rc
		}
	}
	reports := stats.NewReporter(dbh, attempts, quizzes, dir, materials, statsCache)
	svc := attempt.NewService(attempts, quizzes, dir, attempt.LogNotifier{}, reports)

	// --- Event relay (optional) ---
	if cfg.AMQPURL != "" {
		pub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("amqp: %v", err)
		}
		defer pub.Close()
		relay := &events.Relay{Log: events.NewLog(dbh), Publisher: pub, Name: "amqp", BatchSize: 100}
		go relay.Run(ctx)
	}

	router := api.NewRouter(api.Deps{
		Auth:           auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL),
		DB:             dbh,
		Directory:      dir,
		Quizzes:        quizzes,
		Materials:      materials,
		Attempts:       svc,
		Reports:        reports,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
