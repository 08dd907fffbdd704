package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/pagination"
	"github.com/alnpaa/certify/pkg/registry"
	"github.com/alnpaa/certify/pkg/server/middleware"
	"github.com/alnpaa/certify/pkg/server/store"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config

	CertificatesStore store.CertificatesStore
	AdminsStore       store.AdminsStore
	HealthStore       store.HealthStore

	Authenticator *authn.Authenticator
	Registry      *registry.Registry
	Pages         *pagination.Registry
	Exporter      *backup.Exporter
	Importer      *backup.Importer

	sessionMW *middleware.SessionAuthenticator
	srv       *http.Server
}

// SessionMiddleware returns the shared session authentication middleware.
func (s *Server) SessionMiddleware() *middleware.SessionAuthenticator {
	return s.sessionMW
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	certificatesStore store.CertificatesStore,
	adminsStore store.AdminsStore,
	healthStore store.HealthStore,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddress(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	state := backup.NewState(cfg.StateDir)
	authenticator := authn.New(adminsStore, []byte(cfg.SessionSecret), cfg.SessionTTL())

	return &Server{
		Router:            router,
		DB:                db,
		Config:            cfg,
		CertificatesStore: certificatesStore,
		AdminsStore:       adminsStore,
		HealthStore:       healthStore,
		Authenticator:     authenticator,
		Registry:          registry.New(certificatesStore),
		Pages:             pagination.NewRegistry(certificatesStore, cfg.PageSize, cfg.SessionTTL()),
		Exporter:          backup.NewExporter(certificatesStore, state),
		Importer:          backup.NewImporter(certificatesStore),
		sessionMW:         middleware.NewSessionAuthenticator(authenticator),
		srv:               srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
