package api

import (
	"net/http"
	"strings"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	"HealthPull/pkg/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie  = "hp_session"
	IdentityCookie = "user_id"
	WindowCookie   = "hp_window"

	identityMaxAge = 365 * 24 * time.Hour
)

type cookieJar struct {
	c      echo.Context
	secure bool
}

func (j cookieJar) read(name string) (string, bool) {
	ck, err := j.c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// write sets name on the response. It is also added to the in-flight request
// so a freshly issued cookie is visible to later reads in the same request.
func (j cookieJar) write(name, value string, maxAge time.Duration) {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		ck.Expires = time.Now().Add(maxAge)
		ck.MaxAge = int(maxAge.Seconds())
	}
	j.c.SetCookie(ck)
	j.c.Request().AddCookie(ck)
}

func (j cookieJar) expire(name string) {
	j.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secure,
	})
}

// sessionID returns the caller's session id, issuing a new one when absent.
func sessionID(c echo.Context, secure bool) string {
	jar := cookieJar{c: c, secure: secure}
	if id, ok := jar.read(SessionCookie); ok {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	jar.write(SessionCookie, id, 0)
	return id
}

// CookieIdentityStore persists the linked subject id in the user_id cookie.
type CookieIdentityStore struct {
	jar cookieJar
}

// NewCookieIdentityStore binds the store to one request.
func NewCookieIdentityStore(c echo.Context, secure bool) *CookieIdentityStore {
	return &CookieIdentityStore{jar: cookieJar{c: c, secure: secure}}
}

func (s *CookieIdentityStore) Get() (string, bool) { return s.jar.read(IdentityCookie) }

func (s *CookieIdentityStore) Set(id string) { s.jar.write(IdentityCookie, id, identityMaxAge) }

var _ drepo.IdentityStore = (*CookieIdentityStore)(nil)

// storedWindow reads the last window shown to this session, if any.
func storedWindow(c echo.Context, loc *time.Location) (models.Window, bool) {
	v, ok := cookieJar{c: c}.read(WindowCookie)
	if !ok {
		return models.Window{}, false
	}
	parts := strings.SplitN(v, "_", 2)
	if len(parts) != 2 {
		return models.Window{}, false
	}
	start, ok1 := util.ParseDate(parts[0], loc)
	end, ok2 := util.ParseDate(parts[1], loc)
	if !ok1 || !ok2 {
		return models.Window{}, false
	}
	return models.Window{Start: start, End: end}, true
}

func storeWindow(c echo.Context, secure bool, w models.Window) {
	cookieJar{c: c, secure: secure}.write(WindowCookie, w.StartDate()+"_"+w.EndDate(), 0)
}
