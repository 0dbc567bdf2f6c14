package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "chamasave-backend/internal/adapter/http"
	"chamasave-backend/internal/adapter/middleware"
	"chamasave-backend/internal/adapter/repository/mysql"
	"chamasave-backend/internal/config"
	"chamasave-backend/internal/infrastructure/cache"
	"chamasave-backend/internal/infrastructure/db"
	"chamasave-backend/internal/notifier"
	"chamasave-backend/internal/usecase/approval"
	"chamasave-backend/internal/usecase/guarantee"
	"chamasave-backend/internal/usecase/ledger"
	"chamasave-backend/internal/usecase/loan"
	"chamasave-backend/internal/usecase/member"
	"chamasave-backend/internal/usecase/servicing"
	"chamasave-backend/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// repositories
	memberRepo := mysql.NewMemberRepository(gormDB)
	loanRepo := mysql.NewLoanRepository(gormDB)
	guaranteeRepo := mysql.NewGuaranteeRepository(gormDB)
	txnRepo := mysql.NewTransactionRepository(gormDB)
	notificationRepo := mysql.NewNotificationRepository(gormDB)
	guow := mysql.NewGormUoW(gormDB)

	// notifications: email when SMTP is configured, structured log otherwise
	var emitter notifier.Emitter = notifier.NewLogEmitter(logger)
	if cfg.MailEnabled() {
		emitter = notifier.NewSMTPEmitter(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.AdminEmail, memberRepo)
	}
	dispatcher := notifier.NewDispatcher(emitter, notificationRepo, logger)

	collector := metrics.NewCollector()

	// usecases
	memberUC := member.NewUsecase(memberRepo)
	ledgerSvc := ledger.NewService(guow, txnRepo, collector)
	loanUC := loan.NewUsecase(loanRepo, guaranteeRepo, guow, dispatcher, collector)
	guaranteeUC := guarantee.NewUsecase(guow, dispatcher, collector)
	approvalUC := approval.NewUsecase(guow, dispatcher, collector)
	servicingUC := servicing.NewUsecase(guow, dispatcher, collector)

	// handlers
	h := httpadp.NewHandler()
	memberH := httpadp.NewMemberHandler(memberUC, ledgerSvc)
	loanH := httpadp.NewLoanHandler(loanUC)
	guaranteeH := httpadp.NewGuaranteeHandler(guaranteeUC)
	approvalH := httpadp.NewApprovalHandler(approvalUC)
	servicingH := httpadp.NewServicingHandler(servicingUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	// retried mutations replay their stored response instead of re-running
	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	// registration precedes having a member id, so it skips the
	// idempotency middleware
	e.POST("/members", memberH.RegisterMember)
	e.GET("/members/:member_id", memberH.GetMember)
	e.POST("/members/:member_id/deposits", memberH.Deposit, idemp)
	e.POST("/members/:member_id/withdrawals", memberH.Withdraw, idemp)
	e.GET("/members/:member_id/transactions", memberH.ListTransactions)
	e.GET("/members/:member_id/loans", loanH.ListMemberLoans)

	e.POST("/loans", loanH.CreateLoan, idemp)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/loans/:loan_id/guarantees", loanH.ListGuarantees)
	e.POST("/loans/:loan_id/guarantors/:member_id/decision", guaranteeH.SubmitDecision, idemp)
	e.POST("/loans/:loan_id/approve", approvalH.ApproveLoan, idemp)
	e.POST("/loans/:loan_id/reject", approvalH.RejectLoan, idemp)
	e.POST("/loans/:loan_id/disburse", servicingH.DisburseLoan, idemp)
	e.POST("/loans/:loan_id/repayments", servicingH.RecordRepayment, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
