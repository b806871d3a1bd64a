package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"onionpay-api/internal/app"
	"onionpay-api/internal/config"
	"onionpay-api/internal/dal"
	"onionpay-api/internal/idgen"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/mq"
	"onionpay-api/internal/router"
	"onionpay-api/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// init infra
	if err := utils.DoWithRetry(ctx, "database", 5, 2*time.Second, dal.InitDB); err != nil {
		return err
	}
	if err := dal.AutoMigrate(dal.DB); err != nil {
		return err
	}
	if err := utils.DoWithRetry(ctx, "redis", 3, time.Second, dal.InitRedis); err != nil {
		logger.ErrorLog.Warnf("[Redis] disabled: %v", err)
	}
	if err := utils.DoWithRetry(ctx, "rabbitmq", 3, 2*time.Second, dal.InitRabbitMQ); err != nil {
		logger.ErrorLog.Warnf("[RabbitMQ] disabled: %v", err)
	}
	defer dal.CloseRabbitMQ()

	if err := idgen.Init(config.C.Snowflake.NodeID); err != nil {
		return err
	}

	opts := app.Options{Config: config.C, DB: dal.DB, Redis: dal.RedisClient}
	if dal.RabbitEnabled() {
		opts.Publisher = mq.NewPublisher(config.C.RabbitMQ.Exchange)
	}
	a := app.New(opts)

	// start consumers
	if dal.RabbitEnabled() && a.Telegram != nil {
		go mq.RunAlertConsumer(ctx, a.Telegram.HandleEvent)
	}
	a.Limiter.StartCleanup(time.Minute, ctx.Done())

	// http server
	if config.C.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + config.C.Server.Port,
		Handler:           router.New(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoLog.Infof("[HTTP] listening %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.InfoLog.Info("[HTTP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLog.Errorf("[HTTP] shutdown: %v", err)
	}
	a.Webhook.Wait()
	return nil
}
