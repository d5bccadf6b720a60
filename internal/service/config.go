// Package service implements the business logic layer.
package service

// ServiceConfig carries the settings the services need.
type ServiceConfig struct {
	User UserServiceConfig
	App  AppServiceConfig
}

// UserServiceConfig controls the user module.
type UserServiceConfig struct {
	// RegisterIsEnable gates the register endpoint.
	RegisterIsEnable bool
}

// AppServiceConfig holds general application settings.
type AppServiceConfig struct {
	// SoftDeleteRetentionTime is how long deleted notes are kept before the
	// cleanup task destroys them (e.g. 7d, 24h, 30m; 0 or empty disables it).
	SoftDeleteRetentionTime string
}
