package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahaza2shakya/PDFchat-app/internal/app"
	"github.com/sahaza2shakya/PDFchat-app/internal/transport/http/response"
)

// QAPort is the handler-facing slice of the QA service.
type QAPort interface {
	Ask(ctx context.Context, question, pdfID string) (*app.Answer, error)
}

type ChatHandler struct {
	qa QAPort
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	PDFID    string `json:"pdf_id"`
}

func NewChatHandler(qa QAPort) *ChatHandler {
	return &ChatHandler{qa: qa}
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	answer, err := h.qa.Ask(c.Request.Context(), req.Question, req.PDFID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "question must not be empty")
		case errors.Is(err, app.ErrPDFNotFound):
			response.Error(c, http.StatusNotFound, "PDF not found")
		case errors.Is(err, app.ErrNoChunks):
			response.Error(c, http.StatusBadRequest, "no documents available to answer from")
		default:
			response.Error(c, http.StatusInternalServerError, "Error processing question: "+err.Error())
		}
		return
	}

	response.OK(c, answer)
}
