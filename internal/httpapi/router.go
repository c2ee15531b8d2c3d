package httpapi

import "net/http"

// NewMux wires the three surfaces: the unauthenticated public intake (rate
// limited), the leader specification form (reached by emailed link) and the
// admin console (bearer token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	admin := RequireAdmin(d.AdminToken)
	public := PublicRateLimit(d.RatePerMin, d.RateBurst)

	// Leads
	lh := LeadsHandler{DB: d.DB, Leads: d.Leads}
	mux.Handle("/public/leads", public(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.Submit,
	})))
	mux.Handle("/leads", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	})))
	mux.Handle("/leads/", admin(http.HandlerFunc(lh.ActByPath)))

	// Companies
	ch := CompaniesHandler{DB: d.DB}
	mux.Handle("/companies", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.List,
	})))
	mux.Handle("/companies/", admin(http.HandlerFunc(ch.GetByPath)))

	// Positions and the leader surface
	ph := PositionsHandler{DB: d.DB, Flow: d.Flow, Areas: d.Areas}
	mux.Handle("/positions", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Create,
		http.MethodGet:  ph.List,
	})))
	mux.Handle("/positions/", admin(http.HandlerFunc(ph.ActByPath)))
	mux.HandleFunc("/leader/positions/", ph.LeaderByPath)

	// Job descriptions
	jh := JDHandler{DB: d.DB, Flow: d.Flow}
	mux.Handle("/jd/", admin(http.HandlerFunc(jh.ActByPath)))

	// Applicants
	ah := ApplicantsHandler{DB: d.DB, Flow: d.Flow, MaxUploadMB: d.MaxUploadMB}
	mux.Handle("/applicants", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	})))
	mux.Handle("/applicants/", admin(http.HandlerFunc(ah.ActByPath)))

	// Public position view and application intake
	pub := PublicHandler{Flow: d.Flow, Applicants: ah}
	mux.Handle("/public/positions/", public(http.HandlerFunc(pub.ByPath)))

	// Uploaded files
	fh := FilesHandler{DB: d.DB}
	mux.Handle("/files/", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.GetByPath,
	})))

	// Areas
	arh := AreasHandler{Areas: d.Areas}
	mux.HandleFunc("/areas", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: arh.List,
	}))
	mux.HandleFunc("/areas/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: arh.GetByPath,
	}))

	// Config
	cfg := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath}
	mux.Handle("/config", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Get,
	})))
	mux.Handle("/config/path", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Path,
	})))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.Handle("/api/secrets/mail", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetMailAPIKey,
	})))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.Handle("/events", admin(methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	})))

	// Health
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
