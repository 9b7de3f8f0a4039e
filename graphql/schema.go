// Package graphql assembles the GraphQL schema served on /api/graphql.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/orgmap-backend/graphql/modules/dashboard"
	"github.com/ortelius/orgmap-backend/internal/services"
)

var registry *services.OrganizationService

// InitService sets the registry the resolvers read from
func InitService(svc *services.OrganizationService) {
	registry = svc
}

// CreateSchema builds the root query from the module query fields
func CreateSchema() (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: dashboard.GetQueryFields(registry),
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
