// Package model defines the database models for Certify.
//
// This package contains GORM models that map to the Certify PostgreSQL
// schema:
//
//   - Certificate: issued certificates (certificates table)
//   - AdminUser: administrator accounts with bcrypt password hashes
//     (admin_users table)
//
// The schema is created and upgraded via the embedded migrations in
// db/migrations.
package model
