package dashboard

import (
	"github.com/ortelius/orgmap-backend/model"
)

func coord(v float64) *float64 { return &v }

func located(id int, county, status string) model.Organization {
	return model.Organization{ID: id, Name: "Org " + county, County: county, Status: status, Lat: coord(float64(id)), Lon: coord(float64(id))}
}

func unlocated(id int, name, status string) model.Organization {
	return model.Organization{ID: id, Name: name, County: "Alpha", Status: status}
}

func ids(orgs []model.Organization) []int {
	out := make([]int, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, o.ID)
	}
	return out
}
