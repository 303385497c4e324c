package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vsharafi/store-api/api"
	"github.com/vsharafi/store-api/api/background"
	"github.com/vsharafi/store-api/config"
	"github.com/vsharafi/store-api/core/order"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/events"
	"github.com/vsharafi/store-api/rate"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	const prefix = "STORE"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	bg := background.New(logger)
	bus := events.NewBus(logger, bg)

	bus.Subscribe(order.TopicCreated, func(ctx context.Context, event events.Event) error {
		evt, ok := event.(order.CreatedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type on %q", event.Topic())
		}
		logger.WithFields(logrus.Fields{
			"order_id":    evt.Order.ID,
			"customer_id": evt.Order.CustomerID,
			"items":       len(evt.Order.Items),
		}).Info("order created")
		return nil
	})

	if cfg.AMQP.URL != "" {
		broker, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to the amqp broker: %w", err)
		}
		defer broker.Close()
		bus.Subscribe(order.TopicCreated, broker.Handler())
	}

	checkoutLimit := rate.NewLimiter(cfg.Checkout.Burst, cfg.Checkout.Expiry, cfg.Checkout.RPS)

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:    cfg.Cors.Origin,
		Log:           logger,
		DB:            db,
		Session:       sessionManager,
		Bus:           bus,
		CheckoutLimit: checkoutLimit,
	})

	srv := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}
	}
	return nil
}
