package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/internal/service/batch"
	"github.com/voyagehq/tripdocs/pkg/logger"
	"github.com/voyagehq/tripdocs/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batchService, err := batch.GetService(ctx, log)
	if err != nil {
		log.Error("Failed to create batch service", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := cfg.GetRedisConfig()
	workerCfg := &worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	batchWorker, err := worker.NewBatchWorker(workerCfg, batchService, log)
	if err != nil {
		log.Error("Failed to create batch worker", logger.Error(err))
		os.Exit(1)
	}

	if err := batchWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	batchWorker.Stop()
	log.Info("Worker stopped")
}
