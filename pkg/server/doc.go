// Package server provides the HTTP server for the Certify API.
//
// This package implements the core HTTP server that handles all registry
// requests. It uses gorilla/mux for routing and provides middleware for
// session authentication and request logging.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, certs, admins, health)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: Runtime configuration
//   - DB: Database connection
//   - Router: HTTP request router
//   - Authenticator: Admin credential and session token handling
//   - Registry: Certificate issuance and revocation
//   - Pages: Per-session pagination controllers
//   - Exporter/Importer: Registry backup plumbing
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - /authn/login - Admin login
//   - /whoami - Session introspection
//   - /certificates - Issue, list, search, and revoke certificates
//   - /verify/{code} - Public certificate verification
//   - /backup/export and /backup/import - Registry backups
//   - /docs - Rendered API documentation
package server
