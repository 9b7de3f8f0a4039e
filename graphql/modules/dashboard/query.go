// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/orgmap-backend/internal/services"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(svc *services.OrganizationService) graphql.Fields {
	return graphql.Fields{
		"counties": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return svc.Counties(), nil
			},
		},
		"organization": &graphql.Field{
			Type: OrganizationType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := p.Args["id"].(int)
				return ResolveOrganization(svc, id)
			},
		},
		// withLocation omitted returns every organization
		"organizations": &graphql.Field{
			Type: graphql.NewList(OrganizationType),
			Args: graphql.FieldConfigArgument{
				"withLocation": &graphql.ArgumentConfig{Type: graphql.Boolean},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var withLocation *bool
				if v, ok := p.Args["withLocation"].(bool); ok {
					withLocation = &v
				}
				return ResolveOrganizations(svc, withLocation), nil
			},
		},
		// counties omitted selects every known county
		"dashboard": &graphql.Field{
			Type: DashboardType,
			Args: graphql.FieldConfigArgument{
				"counties": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				"status":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				"search":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var counties []string
				restricted := false
				if raw, ok := p.Args["counties"].([]interface{}); ok {
					restricted = true
					counties = make([]string, 0, len(raw))
					for _, c := range raw {
						if s, ok := c.(string); ok {
							counties = append(counties, s)
						}
					}
				}
				status, _ := p.Args["status"].(string)
				search, _ := p.Args["search"].(string)
				return ResolveDashboard(svc, counties, restricted, status, search), nil
			},
		},
	}
}
