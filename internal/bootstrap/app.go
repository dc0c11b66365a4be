package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sahaza2shakya/PDFchat-app/internal/config"
	"github.com/sahaza2shakya/PDFchat-app/internal/model"
	mysqlClient "github.com/sahaza2shakya/PDFchat-app/internal/platform/mysql"
	rabbitmqClient "github.com/sahaza2shakya/PDFchat-app/internal/platform/rabbitmq"
	redisClient "github.com/sahaza2shakya/PDFchat-app/internal/platform/redis"
	"github.com/sahaza2shakya/PDFchat-app/internal/repository"
	"github.com/sahaza2shakya/PDFchat-app/internal/worker"
)

type App struct {
	Config         *config.Config
	MySQL          *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	QueryLogWorker *worker.QueryLogWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.PDFDocument{}, &model.Chunk{}, &model.QueryLog{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	queryLogRepo := repository.NewQueryLogRepository(mysqlDB)
	queryLogWorker := worker.NewQueryLogWorker(mqConn, queryLogRepo, cfg.RabbitMQ.QueryLogQueue)
	if err := queryLogWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start query log worker failed: %w", err)
	}

	return &App{
		Config:         cfg,
		MySQL:          mysqlDB,
		Redis:          redisCli,
		MQConn:         mqConn,
		QueryLogWorker: queryLogWorker,
		StartedAt:      time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.QueryLogWorker != nil {
		a.QueryLogWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
