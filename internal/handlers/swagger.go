package handlers

// @title Gateway Inject Example API
// @version 1.0
// @description Example application served through the API Gateway proxy adapter

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name users
// @tag.description User operations

// @tag.name echo
// @tag.description Request and response passthrough checks

// @tag.name auth
// @tag.description Token operations

// @tag.name health
// @tag.description Service health
