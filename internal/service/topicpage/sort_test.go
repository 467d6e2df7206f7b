package topicpage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ougirez/mapwizard/internal/domain"
)

func TestSortChildPlacesBy(t *testing.T) {
	in := domain.ChildPlacesByType{
		"County": {
			{Dcid: "geoId/06085", Name: "Santa Clara"},
			{Dcid: "geoId/06001", Name: "Alameda"},
		},
		"City": {
			{Dcid: "geoId/0667000", Name: "San Francisco"},
			{Dcid: "geoId/0644000", Name: "Los Angeles"},
		},
	}

	byName := SortChildPlacesBy(in, "name")
	assert.Len(t, byName, 2)
	assert.Equal(t, "Alameda", byName["County"][0].Name)
	assert.Equal(t, "Los Angeles", byName["City"][0].Name)

	byDcid := SortChildPlacesBy(in, "dcid")
	assert.Equal(t, "geoId/0644000", byDcid["City"][0].Dcid)

	unknown := SortChildPlacesBy(in, "population")
	assert.Equal(t, in, unknown)

	// input is left untouched
	assert.Equal(t, "Santa Clara", in["County"][0].Name)
}
