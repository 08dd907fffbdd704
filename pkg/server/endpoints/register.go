package endpoints

import (
	"github.com/alnpaa/certify/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterSessionEndpoints(srv)
	RegisterCertificatesEndpoints(srv)
	RegisterVerifyEndpoints(srv)
	RegisterBackupEndpoints(srv)
	RegisterStatusEndpoints(srv)
	RegisterDocsEndpoint(srv)
}
