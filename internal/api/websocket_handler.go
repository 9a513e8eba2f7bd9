package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/websocket"
)

// WebSocketHandler 事件流处理器
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
	log      *zap.Logger
}

// NewWebSocketHandler 创建事件流处理器
func NewWebSocketHandler(hub *websocket.Hub, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 跨域校验由CORS中间件负责
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Connect 建立WebSocket连接
// @Summary 订阅游戏事件流
// @Description 推送提交审核、投票、任务完成等事件，令牌可放Authorization头或token查询参数
// @Tags WebSocket
// @Security Bearer
// @Router /ws [get]
func (h *WebSocketHandler) Connect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "未登录",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket升级失败", zap.Uint("userID", userID), zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)

	go client.WritePump()
	go client.ReadPump()
}
