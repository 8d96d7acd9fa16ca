package config

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"time"
)

var _ HTTPConfig = (*HTTP)(nil)

type Middleware func(string, http.Handler) http.Handler

type HTTP struct {
	ListenAddr    string        `default:":8080" desc:"HTTP listen address"`
	ListenAddrTLS string        `desc:"HTTPS listen address"`
	CertFile      string        `desc:"HTTPS certificate file"`
	KeyFile       string        `desc:"HTTPS key file"`
	CORS          bool          `default:"true" desc:"add CORS headers automatically"`
	UserName      string        `desc:"basic auth user name"`
	Password      string        `desc:"basic auth password"`
	ReadTimeout   time.Duration `desc:"read timeout"`
	WriteTimeout  time.Duration `desc:"write timeout"`
	IdleTimeout   time.Duration `desc:"idle timeout"`
	mux           *http.ServeMux
	middlewares   []Middleware
}

type HTTPConfig interface {
	GetHTTPConfig() *HTTP
}

func (config *HTTP) GetHTTPConfig() *HTTP {
	return config
}

func (config *HTTP) GetHandler() http.Handler {
	return config.mux
}

func (config *HTTP) GetHttpMux() *http.ServeMux {
	if config.mux == nil {
		config.mux = http.NewServeMux()
	}
	return config.mux
}

func (config *HTTP) AddMiddleware(middleware Middleware) {
	config.middlewares = append(config.middlewares, middleware)
}

func (config *HTTP) Handle(path string, f http.Handler) {
	if config.mux == nil {
		config.mux = http.NewServeMux()
	}
	if config.CORS {
		f = CORS(f)
	}
	if config.UserName != "" && config.Password != "" {
		f = BasicAuth(config.UserName, config.Password, f)
	}
	for _, middleware := range config.middlewares {
		f = middleware(path, f)
	}
	config.mux.Handle(path, f)
}

// ListenAndServe serves the mux until ctx is done or a listener fails.
// When ListenAddrTLS is set a second TLS listener runs alongside.
func (config *HTTP) ListenAndServe(ctx context.Context, logger *slog.Logger) error {
	baseCtx := func(net.Listener) context.Context { return ctx }
	server := &http.Server{
		Addr:         config.ListenAddr,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		Handler:      config.GetHandler(),
		BaseContext:  baseCtx,
	}
	done := make(chan error, 2)
	logger.Info("listen http", "addr", config.ListenAddr)
	go func() {
		done <- server.ListenAndServe()
	}()
	var tlsServer *http.Server
	if config.ListenAddrTLS != "" {
		tlsServer = &http.Server{
			Addr:         config.ListenAddrTLS,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
			Handler:      config.GetHandler(),
			BaseContext:  baseCtx,
		}
		logger.Info("listen https", "addr", config.ListenAddrTLS)
		go func() {
			done <- tlsServer.ListenAndServeTLS(config.CertFile, config.KeyFile)
		}()
	}
	defer func() {
		server.Close()
		if tlsServer != nil {
			tlsServer.Close()
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Cross-Origin-Resource-Policy", "cross-origin")
		header.Set("Access-Control-Allow-Headers", "Content-Type,Access-Token")
		header.Set("Access-Control-Allow-Private-Network", "true")
		origin := r.Header["Origin"]
		if len(origin) == 0 {
			header.Set("Access-Control-Allow-Origin", "*")
		} else {
			header.Set("Access-Control-Allow-Origin", origin[0])
		}
		if next != nil && r.Method != "OPTIONS" {
			next.ServeHTTP(w, r)
		}
	})
}

func BasicAuth(u, p string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			usernameHash := sha256.Sum256([]byte(username))
			passwordHash := sha256.Sum256([]byte(password))
			expectedUsernameHash := sha256.Sum256([]byte(u))
			expectedPasswordHash := sha256.Sum256([]byte(p))

			// Compare both hashes in constant time before deciding.
			usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1
			passwordMatch := subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1

			if usernameMatch && passwordMatch {
				if next != nil {
					next.ServeHTTP(w, r)
				}
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
