package app

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"cashbook-go/internal/auth"
	"cashbook-go/internal/config"
	"cashbook-go/internal/db"
	accountdomain "cashbook-go/internal/domain/account"
	activitydomain "cashbook-go/internal/domain/activity"
	invitationdomain "cashbook-go/internal/domain/invitation"
	ledgerdomain "cashbook-go/internal/domain/ledger"
	membershipdomain "cashbook-go/internal/domain/membership"
	userdomain "cashbook-go/internal/domain/user"
	accountrepo "cashbook-go/internal/repository/postgres/account"
	activityrepo "cashbook-go/internal/repository/postgres/activity"
	invitationrepo "cashbook-go/internal/repository/postgres/invitation"
	ledgerrepo "cashbook-go/internal/repository/postgres/ledger"
	membershiprepo "cashbook-go/internal/repository/postgres/membership"
	userrepo "cashbook-go/internal/repository/postgres/user"
	"cashbook-go/internal/transport/httpserver"
	"cashbook-go/internal/transport/httpserver/handler"
	"cashbook-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	recorder   *activitydomain.Recorder
	sweepStop  chan struct{}
	sweepDone  chan struct{}
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	recorder := activitydomain.NewRecorder(activityrepo.NewPostgres(dbConn), log, cfg.Activity.BufferSize)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	users := userdomain.NewService(userrepo.NewPostgres(dbConn), issuer)
	members := membershipdomain.NewService(membershiprepo.NewPostgres(dbConn), recorder)
	accounts := accountdomain.NewService(accountrepo.NewPostgres(dbConn), recorder)
	invitations := invitationdomain.NewService(invitationrepo.NewPostgres(dbConn), issuer, recorder, cfg.InviteBaseURL)
	ledger := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn), recorder)
	activity := activitydomain.NewService(activityrepo.NewPostgres(dbConn), members)

	handlers := handler.New(users, accounts, members, invitations, ledger, activity, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, issuer)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	a := &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		recorder:   recorder,
	}

	if cfg.InviteSweep.Enabled {
		a.startInviteSweeper(invitations, cfg.InviteSweep.Interval)
	}

	return a, nil
}

// startInviteSweeper expires stale pending invitations in the background.
// Reads already expire lazily, the sweeper just keeps listings tidy between
// visits.
func (a *App) startInviteSweeper(invitations *invitationdomain.Service, interval time.Duration) {
	a.sweepStop = make(chan struct{})
	a.sweepDone = make(chan struct{})

	go func() {
		defer close(a.sweepDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-a.sweepStop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				expired, err := invitations.PurgeExpired(ctx)
				cancel()
				if err != nil {
					a.log.Error("invite sweep failed", "err", err)
					continue
				}
				if expired > 0 {
					a.log.Info("invite sweep removed invitations", "count", expired)
				}
			}
		}
	}()
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.sweepStop != nil {
		close(a.sweepStop)
		<-a.sweepDone
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
