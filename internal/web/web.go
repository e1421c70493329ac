package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"vivaah/internal/config"
	"vivaah/internal/countdown"
	"vivaah/internal/export"
	appLog "vivaah/internal/log"
	"vivaah/internal/when"
)

// defaultGuestName is shown when no (or a garbled) guest parameter is
// present in the invitation link.
const defaultGuestName = "Honoured Guest"

// agendaCacheTTL bounds how long a computed agenda payload is reused
// before windows and export links are re-resolved.
const agendaCacheTTL = 30 * time.Second

// Server provides the invitation site: JSON APIs for the landing,
// agenda and countdown views, the calendar export endpoints, and the
// embedded static UI.
type Server struct {
	cfg    *config.Config
	debug  bool
	router *mux.Router

	// In-memory cache for the agenda payload so repeated UI requests do
	// not re-resolve every event window.
	agendaMu    sync.RWMutex
	agendaCache *agendaCache
}

// embeddedStatic contains the exported static invitation UI.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, debug bool) *Server {
	s := &Server{
		cfg:    cfg,
		debug:  debug,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password is treated as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays unauthenticated for probes.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Vivaah", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer starts an HTTP server bound to cfg.Listen and serves the
// invitation site until the listener fails. Graceful shutdown wrapping
// is left to the caller.
func StartServer(_ context.Context, cfg *config.Config, debug bool) error {
	s := NewServer(cfg, debug)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "debug", debug)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/site", s.handleSite).Methods(http.MethodGet)
	s.router.HandleFunc("/api/agenda", s.handleAgenda).Methods(http.MethodGet)
	s.router.HandleFunc("/api/countdown", s.handleCountdown).Methods(http.MethodGet)
	s.router.HandleFunc("/api/events/{slug}", s.handleEventDetail).Methods(http.MethodGet)
	s.router.HandleFunc("/events/{slug}/calendar.ics", s.handleEventICS).Methods(http.MethodGet)
	s.router.HandleFunc("/events/{slug}/google", s.handleEventGoogle).Methods(http.MethodGet)
	s.router.HandleFunc("/calendar.ics", s.handleAgendaFeed).Methods(http.MethodGet)
	s.router.HandleFunc("/preview.png", s.handlePreview).Methods(http.MethodGet)

	// Static invitation UI; everything that is not an API route falls
	// back to the embedded files.
	s.router.PathPrefix("/").Handler(s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// siteResponse is the JSON payload behind the landing/hero view.
type siteResponse struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	BrideName     string             `json:"bride_name"`
	GroomName     string             `json:"groom_name"`
	ParentBride   string             `json:"parent_bride"`
	ParentGroom   string             `json:"parent_groom"`
	Date          string             `json:"date"`
	Time          string             `json:"time"`
	Location      string             `json:"location"`
	Address       string             `json:"address"`
	MapsURL       string             `json:"maps_url"`
	MapsEmbed     string             `json:"maps_embed"`
	Reception     receptionDTO       `json:"reception"`
	Audio         config.AudioConfig `json:"audio"`
	GuestName     string             `json:"guest_name"`
	OGImage       string             `json:"og_image,omitempty"`
	Favicon       string             `json:"favicon,omitempty"`
	TimezoneLabel string             `json:"timezone"`
}

type receptionDTO struct {
	Location  string `json:"location"`
	Address   string `json:"address"`
	MapsURL   string `json:"maps_url"`
	MapsEmbed string `json:"maps_embed"`
}

// handleSite returns the static invitation content plus the personalized
// guest greeting decoded from the ?guest= parameter. A garbled guest
// value degrades to the default placeholder, never to an error.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	guest := DecodeGuestName(r.URL.Query().Get("guest"))
	if guest == "" {
		guest = defaultGuestName
	}

	resp := siteResponse{
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		BrideName:   s.cfg.BrideName,
		GroomName:   s.cfg.GroomName,
		ParentBride: s.cfg.ParentBride,
		ParentGroom: s.cfg.ParentGroom,
		Date:        s.cfg.Date,
		Time:        s.cfg.Time,
		Location:    s.cfg.Location,
		Address:     s.cfg.Address,
		MapsURL:     s.cfg.MapsURL,
		MapsEmbed:   s.cfg.MapsEmbed,
		Reception: receptionDTO{
			Location:  s.cfg.ReceptionLocation,
			Address:   s.cfg.ReceptionAddress,
			MapsURL:   s.cfg.ReceptionMapsURL,
			MapsEmbed: s.cfg.ReceptionEmbed,
		},
		Audio:         s.cfg.Audio,
		GuestName:     guest,
		OGImage:       s.cfg.OGImage,
		Favicon:       s.cfg.Favicon,
		TimezoneLabel: s.cfg.Timezone,
	}
	writeJSON(w, http.StatusOK, resp)
}

// countdownResponse is the JSON payload behind the hero countdown.
// Underway=true is the terminal state: no candidate year yields a
// future instant any more.
type countdownResponse struct {
	Underway  bool                 `json:"underway"`
	Target    string               `json:"target,omitempty"`
	Label     string               `json:"label,omitempty"`
	Remaining *countdown.Remaining `json:"remaining,omitempty"`
}

func (s *Server) handleCountdown(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	target, ok := when.ResolveNextOccurrence(s.cfg.Date, s.cfg.Time, s.cfg.UTCOffset, now)
	if !ok {
		writeJSON(w, http.StatusOK, countdownResponse{Underway: true})
		return
	}

	rem, ok := countdown.Until(target, now)
	if !ok {
		writeJSON(w, http.StatusOK, countdownResponse{Underway: true})
		return
	}

	writeJSON(w, http.StatusOK, countdownResponse{
		Underway:  false,
		Target:    target.Format(time.RFC3339),
		Label:     "Wedding Ceremony",
		Remaining: &rem,
	})
}

// eventDTO is the JSON view of one agenda entry, including its resolved
// window and the calendar export links.
type eventDTO struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Subheading  string `json:"subheading,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TimeZone    string `json:"time_zone"`
	Location    string `json:"location"`
	Address     string `json:"address"`
	Description string `json:"description"`
	ThemeTag    string `json:"theme_tag,omitempty"`

	// Resolved window, RFC 3339 in the configured offset. Empty when the
	// agenda entry's date is malformed.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	GoogleLink string `json:"google_link,omitempty"`
	ICSPath    string `json:"ics_path"`
	FileName   string `json:"file_name"`
}

type agendaResponse struct {
	Events    []eventDTO `json:"events"`
	Timezone  string     `json:"timezone"`
	UTCOffset string     `json:"utc_offset"`
}

// agendaCache holds a computed agenda payload and its timestamp.
type agendaCache struct {
	resp      agendaResponse
	updatedAt time.Time
}

// InvalidateAgenda drops the cached agenda payload. Called by the
// scheduled refresh after config-derived data may have changed.
func (s *Server) InvalidateAgenda() {
	s.agendaMu.Lock()
	s.agendaCache = nil
	s.agendaMu.Unlock()
}

func (s *Server) handleAgenda(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()

	s.agendaMu.RLock()
	ac := s.agendaCache
	s.agendaMu.RUnlock()
	if ac != nil && now.Sub(ac.updatedAt) < agendaCacheTTL {
		writeJSON(w, http.StatusOK, ac.resp)
		return
	}

	resp := agendaResponse{
		Events:    make([]eventDTO, 0, len(s.cfg.Agenda)),
		Timezone:  s.cfg.Timezone,
		UTCOffset: s.cfg.UTCOffset,
	}
	for _, ev := range s.cfg.Agenda {
		resp.Events = append(resp.Events, s.eventToDTO(ev))
	}

	s.agendaMu.Lock()
	s.agendaCache = &agendaCache{resp: resp, updatedAt: time.Now()}
	s.agendaMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) eventToDTO(ev config.Event) eventDTO {
	dto := eventDTO{
		Slug:        ev.Slug,
		Title:       ev.Title,
		Subheading:  ev.Subheading,
		Date:        ev.Date,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		TimeZone:    ev.TimeZone,
		Location:    ev.Location,
		Address:     ev.Address,
		Description: ev.Description,
		ThemeTag:    ev.ThemeTag,
		ICSPath:     "/events/" + ev.Slug + "/calendar.ics",
		FileName:    export.SuggestFileName(ev.Title),
	}

	win, ok := when.ResolveWindow(ev.Date, ev.StartTime, ev.EndTime, s.cfg.UTCOffset)
	if !ok {
		// Malformed agenda data renders without time details rather than
		// failing the whole agenda.
		appLog.Error("agenda event has unresolvable window",
			errors.New("invalid date"), "slug", ev.Slug, "date", ev.Date)
		return dto
	}

	dto.Start = win.Start.Format(time.RFC3339)
	dto.End = win.End.Format(time.RFC3339)
	dto.GoogleLink = export.GoogleCalendarLink(
		ev.Title, ev.Description, ev.Location, ev.TimeZone, win.Start, win.End)
	return dto
}

// eventDetailResponse extends eventDTO with the long-form detail block.
type eventDetailResponse struct {
	eventDTO
	Detail config.EventDetail `json:"detail"`
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	ev, ok := s.cfg.EventBySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown event")
		return
	}

	writeJSON(w, http.StatusOK, eventDetailResponse{
		eventDTO: s.eventToDTO(ev),
		Detail:   ev.Detail,
	})
}

// handleEventICS serves the single-event interchange document as a
// download with the suggested filename.
func (s *Server) handleEventICS(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	ev, ok := s.cfg.EventBySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown event")
		return
	}

	win, ok := when.ResolveWindow(ev.Date, ev.StartTime, ev.EndTime, s.cfg.UTCOffset)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "event has no resolvable date")
		return
	}

	sourceURL := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/events/" + ev.Slug
	doc := export.InterchangeDocument(
		ev.Title, ev.Description, ev.Location, sourceURL, win.Start, win.End)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.SuggestFileName(ev.Title)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// handleEventGoogle redirects to the Google Calendar deep link for the
// event, so the UI only needs a plain anchor.
func (s *Server) handleEventGoogle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	ev, ok := s.cfg.EventBySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown event")
		return
	}

	win, ok := when.ResolveWindow(ev.Date, ev.StartTime, ev.EndTime, s.cfg.UTCOffset)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "event has no resolvable date")
		return
	}

	link := export.GoogleCalendarLink(
		ev.Title, ev.Description, ev.Location, ev.TimeZone, win.Start, win.End)
	http.Redirect(w, r, link, http.StatusFound)
}

// handleAgendaFeed serves the whole agenda as one subscribable
// iCalendar feed. Events with unresolvable dates are skipped.
func (s *Server) handleAgendaFeed(w http.ResponseWriter, _ *http.Request) {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")

	feedEvents := make([]export.FeedEvent, 0, len(s.cfg.Agenda))
	for _, ev := range s.cfg.Agenda {
		win, ok := when.ResolveWindow(ev.Date, ev.StartTime, ev.EndTime, s.cfg.UTCOffset)
		if !ok {
			appLog.Error("feed: skipping event with unresolvable window",
				errors.New("invalid date"), "slug", ev.Slug, "date", ev.Date)
			continue
		}
		feedEvents = append(feedEvents, export.FeedEvent{
			Title:       ev.Title,
			Description: ev.Description,
			Location:    ev.Location,
			URL:         base + "/events/" + ev.Slug,
			Start:       win.Start,
			End:         win.End,
		})
	}

	feed := export.AgendaFeed(s.cfg.Title, s.cfg.Timezone, feedEvents, time.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}

// handlePreview serves the last captured landing-page snapshot.
// The path matches the snapshot pipeline in cmd/vivaah:
//   - configured: cfg.SnapshotPath
//   - debug:      ./cache/preview.png
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	previewPath := s.cfg.SnapshotPath
	if s.debug || previewPath == "" {
		previewPath = "./cache/preview.png"
	}

	// http.ServeFile returns the right status for missing files (404)
	// and other errors.
	http.ServeFile(w, r, previewPath)
}

// staticFileServer returns an http.Handler that serves the embedded
// invitation UI from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Never serve HTML for /api/* paths; a missing API route is a 404.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
