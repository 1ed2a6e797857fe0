package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/config"
	appHTTP "github.com/kapehan/cafe-workforce-backend-go/internal/handler/http"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/cron"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/jwt"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/sse"
	"github.com/kapehan/cafe-workforce-backend-go/internal/repository/postgresql"
	notificationService "github.com/kapehan/cafe-workforce-backend-go/internal/service/notification"
	payrollService "github.com/kapehan/cafe-workforce-backend-go/internal/service/payroll"
	shiftService "github.com/kapehan/cafe-workforce-backend-go/internal/service/shift"
	workflowService "github.com/kapehan/cafe-workforce-backend-go/internal/service/workflow"
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
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	breakPolicyRepo := postgresql.NewBreakPolicyRepository(db)
	tradeRepo := postgresql.NewTradeRepository(db)
	dropRepo := postgresql.NewDropRepository(db)
	timeOffRepo := postgresql.NewTimeOffRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	bracketRepo := postgresql.NewBracketRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	notifService := notificationService.NewNotificationService(notificationRepo, hub)
	shiftSvc := shiftService.NewShiftService(shiftRepo, timeEntryRepo, breakPolicyRepo, employeeRepo)
	workflowSvc := workflowService.NewWorkflowService(tradeRepo, dropRepo, timeOffRepo, shiftRepo, employeeRepo, notifService)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, bracketRepo, holidayRepo, shiftRepo, employeeRepo, notifService)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("expire-stale-requests", 15*time.Minute, workflowSvc.ExpireStaleRequests)
	scheduler.Start()
	defer scheduler.Stop()

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	workflowHandler := appHTTP.NewWorkflowHandler(workflowSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifService, jwtService, hub)

	router := appHTTP.NewRouter(jwtService, shiftHandler, workflowHandler, payrollHandler, notificationHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
