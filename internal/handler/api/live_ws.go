package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/service/metrics"
	xhttp "HealthPull/pkg/http"
	applogger "HealthPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveMaxMessage = 4 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 << 10,
}

// liveUpdate is one server frame: the adjusted window and every kind's table,
// or a list of errors for a rejected client frame.
type liveUpdate struct {
	Window models.WindowResponse        `json:"window"`
	Linked bool                         `json:"linked"`
	Tables map[models.Kind]models.Table `json:"tables,omitempty"`
	Errors []xhttp.ValidationError      `json:"errors,omitempty"`
}

// Live upgrades to a websocket. Each client frame {"start","end"} is a slider
// edit; the server answers with the adjusted window and the reloaded tables.
func (h *DashboardHandler) Live(c echo.Context) error {
	session := sessionID(c, h.opts.SecureCookies)
	subject := h.identity.Resolve(c.QueryParam("user_id"), NewCookieIdentityStore(c, h.opts.SecureCookies))
	window := h.window(c, c.QueryParam("start"), c.QueryParam("end"))

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), c.Response().Header())
	if err != nil {
		// the upgrader already answered the client
		h.logger.Warn("live upgrade failed", applogger.Error(err))
		return nil
	}
	metrics.LiveConnections.Inc()
	defer metrics.LiveConnections.Dec()
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	var wmu sync.Mutex
	write := func(v interface{}) error {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(v)
	}

	// ping loop
	go func() {
		ticker := time.NewTicker(livePingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				wmu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait))
				wmu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(liveMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	if err := write(h.liveUpdate(ctx, session, subject, window)); err != nil {
		return nil
	}

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("live read", applogger.Error(err))
			}
			return nil
		}

		var body models.WindowBody
		if err := json.Unmarshal(b, &body); err != nil {
			if write(liveUpdate{Window: h.windowResponse(window), Errors: []xhttp.ValidationError{{Code: "ERR_BIND", Message: err.Error()}}}) != nil {
				return nil
			}
			continue
		}
		if verr := xhttp.ValidateStruct(ctx, &body); verr != nil {
			if write(liveUpdate{Window: h.windowResponse(window), Errors: verr}) != nil {
				return nil
			}
			continue
		}
		if !h.allow(session, "live") {
			err := xhttp.TooManyRequestsError("slow down")
			if write(liveUpdate{Window: h.windowResponse(window), Errors: []xhttp.ValidationError{{Code: err.Code, Message: err.Message}}}) != nil {
				return nil
			}
			continue
		}

		window = h.dates.Adjust(window, h.parseWindow(body))
		if err := write(h.liveUpdate(ctx, session, subject, window)); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				h.logger.Debug("live write", applogger.Error(err))
			}
			return nil
		}
	}
}

func (h *DashboardHandler) liveUpdate(ctx context.Context, session, subject string, w models.Window) liveUpdate {
	start := time.Now()
	defer observe("live", start)

	u := liveUpdate{
		Window: h.windowResponse(w),
		Linked: subject != "",
		Tables: make(map[models.Kind]models.Table, 4),
	}
	for _, k := range models.AllKinds() {
		_, t, err := h.loader.Load(ctx, session, models.Query{SubjectID: subject, Kind: k, Window: w})
		if err != nil {
			h.logger.Error("live load failed", applogger.String("kind", string(k)), applogger.Error(err))
			continue
		}
		u.Tables[k] = t
	}
	return u
}
