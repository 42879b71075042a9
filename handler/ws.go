package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/TIANLI0/SegBrush/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsMaxMessageSize = 4096
	wsWriteTimeout   = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsAck 每个指针事件的确认消息
type wsAck struct {
	Accepted bool                   `json:"accepted"`
	Session  *model.SessionSnapshot `json:"session,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Stream 通过 websocket 接收有序的指针事件流，每条消息一个事件。
// 连接断开时结束进行中的笔画，与指针离开画布的效果相同。
func (h *SessionHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.With(id, func(*service.Session) error { return nil }); err != nil {
		fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Logger.Warn("websocket upgrade failed", zap.String("session_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessageSize)
	idle := h.cfg.Session.IdleTimeout
	if idle > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(idle))
	}

	utils.Logger.Info("pointer stream opened", zap.String("session_id", id))
	defer func() {
		_ = h.sessions.With(id, func(s *service.Session) error {
			s.Editor().PointerUp()
			return nil
		})
		utils.Logger.Info("pointer stream closed", zap.String("session_id", id))
	}()

	for {
		var ev model.PointerEvent
		if err := conn.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				utils.Logger.Debug("pointer stream read failed", zap.String("session_id", id), zap.Error(err))
			}
			return
		}
		if idle > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(idle))
		}

		var (
			ack      wsAck
			applyErr error
		)
		if !validPointerType(ev.Type) {
			ack.Error = "invalid event type"
		} else {
			applyErr = h.sessions.With(id, func(s *service.Session) error {
				ack.Accepted = applyPointer(s.Editor(), ev)
				snap := snapshot(s)
				ack.Session = &snap
				return nil
			})
			if applyErr != nil {
				ack.Error = applyErr.Error()
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(ack); err != nil {
			return
		}
		if errors.Is(applyErr, service.ErrSessionNotFound) {
			return
		}
	}
}
