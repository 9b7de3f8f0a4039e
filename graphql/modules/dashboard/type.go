// Package dashboard defines the GraphQL types for the organization dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// NoteEntryType is one note history record
var NoteEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NoteEntry",
	Fields: graphql.Fields{
		"note_taker": &graphql.Field{Type: graphql.String},
		"note":       &graphql.Field{Type: graphql.String},
		"date":       &graphql.Field{Type: graphql.String},
	},
})

// OrganizationType represents one tracked organization
var OrganizationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Organization",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":         &graphql.Field{Type: graphql.String},
		"address":      &graphql.Field{Type: graphql.String},
		"county":       &graphql.Field{Type: graphql.String},
		"zipcode":      &graphql.Field{Type: graphql.String},
		"website":      &graphql.Field{Type: graphql.String},
		"phone":        &graphql.Field{Type: graphql.String},
		"email":        &graphql.Field{Type: graphql.String},
		"status":       &graphql.Field{Type: graphql.String},
		"status_class": &graphql.Field{Type: graphql.String},
		"notes":        &graphql.Field{Type: graphql.String},
		"note_taker":   &graphql.Field{Type: graphql.String},
		"note_history": &graphql.Field{Type: graphql.NewList(NoteEntryType)},
		"lat":          &graphql.Field{Type: graphql.Float},
		"lon":          &graphql.Field{Type: graphql.Float},
		"has_location": &graphql.Field{Type: graphql.Boolean},
	},
})

// DashboardStatsType holds the aggregate counters
var DashboardStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardStats",
	Fields: graphql.Fields{
		"total":            &graphql.Field{Type: graphql.Int},
		"with_location":    &graphql.Field{Type: graphql.Int},
		"without_location": &graphql.Field{Type: graphql.Int},
		"pending":          &graphql.Field{Type: graphql.Int},
		"confirmed_yes":    &graphql.Field{Type: graphql.Int},
		"confirmed_no":     &graphql.Field{Type: graphql.Int},
		"in_process":       &graphql.Field{Type: graphql.Int},
		"other":            &graphql.Field{Type: graphql.Int},
	},
})

// DashboardType is the filtered dashboard: counters plus both visible collections
var DashboardType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Dashboard",
	Fields: graphql.Fields{
		"stats":         &graphql.Field{Type: DashboardStatsType},
		"no_location":   &graphql.Field{Type: graphql.NewList(OrganizationType)},
		"with_location": &graphql.Field{Type: graphql.NewList(OrganizationType)},
	},
})
