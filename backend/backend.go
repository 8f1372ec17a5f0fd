package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/wansing/blog/core"
)

// NewSessionManager configures an scs session manager. The cookie path should be the base prefix without trailing slash.
func NewSessionManager(store scs.Store, cookiePath string) *scs.SessionManager {
	var sm = scs.New()
	sm.Store = store
	sm.Cookie.Name = "session"
	sm.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	sm.Cookie.Persist = false                 // Don't store cookie across browser sessions.
	sm.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	sm.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	sm.IdleTimeout = 12 * time.Hour
	sm.Lifetime = 720 * time.Hour
	return sm
}

// handle is a core operation. It gets the session of the request and may modify it.
type handle func(s *core.Session, req *core.Request) core.Outcome

type server struct {
	db       *core.CoreDB
	sessions *scs.SessionManager
	prefix   string // without trailing slash
}

// loadSession reads the session payload. The returned session always has an error list.
func (srv *server) loadSession(ctx context.Context) *core.Session {
	var s = &core.Session{
		Authorized:    srv.sessions.GetBool(ctx, core.KeyAuthorized),
		Administrator: srv.sessions.GetBool(ctx, core.KeyAdministrator),
		UserID:        srv.sessions.GetInt(ctx, core.KeyUserID),
	}
	s.Errors, _ = srv.sessions.Get(ctx, core.KeyErrors).([]string)
	return s
}

// saveSession writes the fields which differ from the loaded payload.
func (srv *server) saveSession(ctx context.Context, loaded, s *core.Session) {
	if s.Authorized != loaded.Authorized {
		srv.sessions.Put(ctx, core.KeyAuthorized, s.Authorized)
	}
	if s.Administrator != loaded.Administrator {
		srv.sessions.Put(ctx, core.KeyAdministrator, s.Administrator)
	}
	if s.UserID != loaded.UserID {
		srv.sessions.Put(ctx, core.KeyUserID, s.UserID)
	}
	if loaded.Errors == nil || !equalStrings(s.Errors, loaded.Errors) {
		srv.sessions.Put(ctx, core.KeyErrors, s.Errors)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (srv *server) middleware(f handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {

		var ctx = r.Context()

		var loaded = srv.loadSession(ctx)
		var s = &core.Session{
			Authorized:    loaded.Authorized,
			Administrator: loaded.Administrator,
			UserID:        loaded.UserID,
			Errors:        append([]string(nil), loaded.Errors...),
		}
		core.EnsureErrorList(s)

		if r.Method == http.MethodPost {
			_ = r.ParseForm() // a malformed body results in empty fields, which the core reports
		}

		var req = &core.Request{
			Method:  r.Method,
			Path:    r.URL.Path,
			Params:  make(map[string]string, len(params)),
			Form:    r.PostForm,
			Referer: r.Referer(),
		}
		for _, p := range params {
			req.Params[p.Key] = p.Value
		}

		var outcome = f(s, req)

		srv.saveSession(ctx, loaded, s)
		srv.write(w, r, outcome)
	}
}

// logout destroys the session and stores a fresh one, which gets a new token.
func (srv *server) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ctx = r.Context()
	if err := srv.sessions.Destroy(ctx); err != nil {
		srv.write(w, r, core.Status(http.StatusInternalServerError))
		return
	}
	var s = core.Logout()
	srv.saveSession(ctx, &core.Session{}, s)
	srv.write(w, r, core.SeeOther("/"))
}

// write translates an outcome to HTTP.
func (srv *server) write(w http.ResponseWriter, r *http.Request, outcome core.Outcome) {
	switch {
	case outcome.Status != 0:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(outcome.Status)
		w.Write([]byte(http.StatusText(outcome.Status)))
	case outcome.IsRedirect():
		http.Redirect(w, r, outcome.Location, http.StatusSeeOther)
	default:
		srv.render(w, r, outcome.Template, outcome.Data)
	}
}

// NewRouter returns the handler of the blog. The caller must wrap it with sm.LoadAndSave.
func NewRouter(db *core.CoreDB, sm *scs.SessionManager, prefix string) http.Handler {

	var srv = &server{
		db:       db,
		sessions: sm,
		prefix:   prefix,
	}

	var router = httprouter.New()

	router.GET("/login", srv.middleware(loginPage))
	router.POST("/login", srv.middleware(db.Login))
	router.POST("/logout", srv.logout)

	router.GET("/", srv.middleware(db.ListEntries))
	router.GET("/entries", srv.middleware(db.ListEntries))

	// "/entry/create" can't be registered next to "/entry/:id"
	router.GET("/entry/:id", srv.middleware(srv.viewOrCreateForm))
	router.POST("/entry/:id", srv.middleware(srv.createEntry))
	router.GET("/entry/:id/update", srv.middleware(srv.updateForm))
	router.POST("/entry/:id/update", srv.middleware(srv.updateEntry))
	router.POST("/entry/:id/delete", srv.middleware(db.DeleteEntry))

	router.POST("/entry/:id/comment/:comment", srv.middleware(srv.createComment))
	router.POST("/entry/:id/comment/:comment/update", srv.middleware(srv.updateComment))

	router.ServeFiles("/static/*filepath", http.Dir("static"))

	return router
}
