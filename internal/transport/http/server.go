package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahaza2shakya/PDFchat-app/internal/ai"
	appsvc "github.com/sahaza2shakya/PDFchat-app/internal/app"
	"github.com/sahaza2shakya/PDFchat-app/internal/bootstrap"
	"github.com/sahaza2shakya/PDFchat-app/internal/cache"
	"github.com/sahaza2shakya/PDFchat-app/internal/pkg/textsplit"
	rabbitmqClient "github.com/sahaza2shakya/PDFchat-app/internal/platform/rabbitmq"
	"github.com/sahaza2shakya/PDFchat-app/internal/repository"
	"github.com/sahaza2shakya/PDFchat-app/internal/transport/http/handler"
	"github.com/sahaza2shakya/PDFchat-app/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS())

	docRepo := repository.NewDocumentRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)
	catalogCache := cache.NewCatalogCache(app.Redis, time.Duration(app.Config.Redis.CatalogTTLSeconds)*time.Second)

	llm := ai.NewClient(
		app.Config.LLM.BaseURL,
		app.Config.LLM.APIKey,
		app.Config.LLM.ChatModel,
		app.Config.LLM.EmbeddingModel,
	)
	splitter := textsplit.New(app.Config.Ingest.ChunkSize, app.Config.Ingest.ChunkOverlap)
	auditLog := rabbitmqClient.NewQueryLogPublisher(app.MQConn, app.Config.RabbitMQ.QueryLogQueue)

	catalogService := appsvc.NewCatalogService(docRepo, chunkRepo, catalogCache)
	ingestService := appsvc.NewIngestService(docRepo, chunkRepo, llm, splitter, catalogCache, app.Config.Ingest.EmbedBatchSize)
	qaService := appsvc.NewQAService(docRepo, chunkRepo, llm, app.Config.Retrieval.TopK, auditLog)

	healthHandler := handler.NewHealthHandler(app)
	pdfHandler := handler.NewPDFHandler(catalogService, ingestService, app.Config.Ingest.MaxUploadBytes)
	chatHandler := handler.NewChatHandler(qaService)

	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")
	api.GET("/pdfs", pdfHandler.List)
	api.POST("/upload-pdf", pdfHandler.Upload)
	api.DELETE("/pdfs/:pdf_id", pdfHandler.Delete)
	api.POST("/chat", chatHandler.Ask)

	return router
}
