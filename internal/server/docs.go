package server

// General API annotations for swag. Endpoint annotations live with the
// handlers.
//
// @title toolhub API
// @version 1.0
// @description Browse, search and administer the AI tools and guides directory.
// @description Catalog changes stream over WebSocket and Server-Sent Events.
//
// @contact.name toolhub
// @contact.url https://github.com/agentstation/toolhub
//
// @license.name MIT
//
// @host localhost:8080
// @BasePath /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Required on admin routes when authentication is enabled
