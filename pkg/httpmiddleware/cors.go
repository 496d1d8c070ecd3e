package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin request handling.
type CORSConfig struct {
	// AllowOrigins lists the origins permitted to call the API. Empty, or a
	// single "*", permits every origin.
	AllowOrigins []string

	// AllowMethods lists permitted methods for preflighted requests. Empty
	// defaults to the methods the API actually serves.
	AllowMethods []string

	// AllowHeaders lists permitted request headers. Empty echoes whatever
	// the preflight asked for.
	AllowHeaders []string

	// ExposeHeaders lists response headers readable by browser scripts.
	ExposeHeaders []string

	// AllowCredentials permits cookies and Authorization headers. Incompatible
	// with the wildcard origin, so enabling it forces per-origin matching.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds; zero omits the header.
	MaxAge int
}

// CORS returns a middleware implementing the CORS protocol: it answers
// preflight OPTIONS requests itself and decorates actual responses with the
// allow headers. Requests without an Origin header pass through untouched
// apart from Vary.
func CORS(cfg CORSConfig) Middleware {
	p := newOriginPolicy(cfg)

	methods := strings.Join(cfg.AllowMethods, ", ")
	if methods == "" {
		methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, ok := p.resolve(origin)

			if isPreflight(r) {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")

				if ok {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					w.Header().Set("Access-Control-Allow-Methods", methods)
					switch {
					case headers != "":
						w.Header().Set("Access-Control-Allow-Headers", headers)
					default:
						if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
							w.Header().Set("Access-Control-Allow-Headers", req)
						}
					}
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if ok {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if expose != "" {
					w.Header().Set("Access-Control-Expose-Headers", expose)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// originPolicy decides which Allow-Origin value to answer with. Matching is
// case-insensitive; the configured spelling is echoed back.
type originPolicy struct {
	wildcard bool
	origins  map[string]string
}

func newOriginPolicy(cfg CORSConfig) originPolicy {
	p := originPolicy{origins: make(map[string]string, len(cfg.AllowOrigins))}
	if len(cfg.AllowOrigins) == 0 {
		p.wildcard = true
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			p.wildcard = true
			continue
		}
		p.origins[strings.ToLower(o)] = o
	}
	// Fetch forbids "*" together with credentials; echo the caller's
	// origin instead so browsers accept the response.
	if cfg.AllowCredentials {
		p.wildcard = false
	}
	return p
}

func (p originPolicy) resolve(origin string) (string, bool) {
	if p.wildcard {
		return "*", true
	}
	if len(p.origins) == 0 {
		return origin, true
	}
	if spelled, ok := p.origins[strings.ToLower(origin)]; ok {
		return spelled, true
	}
	return "", false
}
