package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/llm"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
	"github.com/airclass/airclass/internal/pkg/response"
	"github.com/airclass/airclass/internal/ragclient"
	"github.com/airclass/airclass/internal/service"
)

const maxDetailLen = 300

// handleError converts every service-level failure into the wire error
// shape. Backend-facing errors never escape unhandled: 5xx upstream
// rejections collapse into 502, network failures into 503 with a hint.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	var backendErr *ragclient.BackendError
	var unreachableErr *ragclient.UnreachableError
	var genErr *service.GenerationError
	switch {
	case errors.Is(err, appErr.ErrMissingField):
		response.Error(c, http.StatusBadRequest, "缺少 query 或 message")
	case errors.As(err, &backendErr):
		status := backendErr.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		response.ErrorDetails(c, status, backendErr.Message, strconv.Itoa(backendErr.Status))
	case errors.As(err, &unreachableErr):
		response.ErrorHint(c, http.StatusServiceUnavailable, "無法連線至 RAG 後端", unreachableErr.Hint)
	case errors.Is(err, appErr.ErrNoBackend):
		response.ErrorHint(c, http.StatusServiceUnavailable, "未設定 LLM API Key",
			"請設定 HUGGINGFACE_API_KEY（推薦）或 OPENAI_API_KEY 以啟用 RAG 助教；或設定 RAG_BACKEND_URL 使用外部 RAG 後端")
	case errors.As(err, &genErr):
		response.ErrorDetails(c, http.StatusBadGateway, "LLM 服務暫時無法回應", generationDetails(genErr))
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "找不到資源")
	case appErr.IsConflict(err):
		response.Error(c, http.StatusConflict, "無法刪除最後一個對話")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "無效的請求")
	default:
		response.ErrorDetails(c, http.StatusInternalServerError, "伺服器錯誤", truncate(err.Error()))
	}
}

func generationDetails(genErr *service.GenerationError) string {
	var reqErr *llm.RequestError
	if errors.As(genErr.Cause, &reqErr) {
		return truncate(reqErr.Body)
	}
	return truncate(genErr.Cause.Error())
}

func truncate(s string) string {
	if len(s) > maxDetailLen {
		return s[:maxDetailLen]
	}
	return s
}
