// Package docs NoteDeck API
//
// @title  NoteDeck API
// @version 0.1.0
// @description Multi-tenant notes and tasks backend.
// @host      localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "notedeck/cmd/server/handlers/httperr"
	_ "notedeck/internal/services/auth"
	_ "notedeck/internal/services/notes"
	_ "notedeck/internal/services/tasks"
)
