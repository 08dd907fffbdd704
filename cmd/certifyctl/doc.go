// Package main implements certifyctl, the Certify server and admin CLI.
//
// Certify is a certificate registry: admins issue certificates with unique
// verification codes, and anyone holding a code can verify it against the
// public endpoint.
//
// # Quick Start
//
//	# Run database migrations
//	certifyctl db migrate
//
//	# Create an admin user
//	certifyctl admin create ops@example.org
//
//	# Start the server
//	certifyctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CERTIFY_SESSION_SECRET: Session token signing secret
//   - CERTIFY_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8080)
package main
