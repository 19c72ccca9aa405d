package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	appHTTP "github.com/chronohq/attendance-engine-go/internal/handler/http"
	"github.com/chronohq/attendance-engine-go/internal/pkg/cron"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/chronohq/attendance-engine-go/internal/pkg/events"
	"github.com/chronohq/attendance-engine-go/internal/pkg/jwt"
	"github.com/chronohq/attendance-engine-go/internal/repository/postgresql"
	exceptionService "github.com/chronohq/attendance-engine-go/internal/service/exception"
	"github.com/chronohq/attendance-engine-go/internal/service/geofence"
	leaveService "github.com/chronohq/attendance-engine-go/internal/service/leave"
	sessionService "github.com/chronohq/attendance-engine-go/internal/service/session"
	workplaceService "github.com/chronohq/attendance-engine-go/internal/service/workplace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Pool.Close()

	sessionRepo := postgresql.NewSessionRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	workplaceRepo := postgresql.NewWorkplaceRepository(db)
	zoneRepo := postgresql.NewGeofenceZoneRepository(db)
	exceptionRepo := postgresql.NewExceptionRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	hub := events.NewHub()
	emitter := events.NewEmitter(hub, slog.Default())

	geofenceValidator := geofence.NewValidator(zoneRepo)
	calculator := sessionService.NewDurationCalculator()

	sessionSvc := sessionService.NewSessionService(
		db,
		sessionRepo,
		breakRepo,
		workplaceRepo,
		geofenceValidator,
		calculator,
		emitter,
		cfg.Engine,
	)
	exceptionSvc := exceptionService.NewExceptionService(db, exceptionRepo, sessionRepo, emitter, cfg.Engine)
	ledgerSvc := leaveService.NewLedgerService(db, leaveTypeRepo, leaveBalanceRepo, cfg.Engine)
	requestSvc := leaveService.NewRequestService(db, leaveRequestRepo, leaveTypeRepo, ledgerSvc, emitter, cfg.Engine)
	typeSvc := leaveService.NewTypeService(db, leaveTypeRepo, cfg.Engine)
	zoneSvc := workplaceService.NewZoneService(workplaceRepo, zoneRepo, cfg.Engine)

	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	exceptionHandler := appHTTP.NewExceptionHandler(exceptionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(typeSvc, ledgerSvc, requestSvc)
	workplaceHandler := appHTTP.NewWorkplaceHandler(zoneSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		attendanceHandler,
		exceptionHandler,
		leaveHandler,
		workplaceHandler,
		eventsHandler,
	)

	scheduler := cron.NewScheduler()
	cron.RegisterAccrualJob(scheduler, ledgerSvc, cfg.Engine.AccrualCheckInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
