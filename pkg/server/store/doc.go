// Package store provides storage abstractions for the Certify server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - CertificatesStore: certificate registry operations (insert, list,
//     count, delete, code lookups, batch import)
//   - AdminsStore: administrator account lookup and credential rotation
//   - HealthStore: connectivity checks
//
// # Usage
//
//	certs := gorm.NewCertificatesStore(db)
//	cert, err := certs.FindByCode("A1B2C3D4")
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
