package topicpage

import (
	"sort"

	"github.com/ougirez/mapwizard/internal/domain"
)

// SortChildPlacesBy returns a copy of childPlaces where each type's list is
// sorted by prop ("name" or "dcid"). Unknown props leave lists in order.
func SortChildPlacesBy(childPlaces domain.ChildPlacesByType, prop string) domain.ChildPlacesByType {
	key := func(p domain.NamedPlace) (string, bool) {
		switch prop {
		case "name":
			return p.Name, true
		case "dcid":
			return p.Dcid, true
		}
		return "", false
	}

	sorted := make(domain.ChildPlacesByType, len(childPlaces))
	for placeType, places := range childPlaces {
		out := make([]domain.NamedPlace, len(places))
		copy(out, places)
		if _, ok := key(domain.NamedPlace{}); ok {
			sort.SliceStable(out, func(i, j int) bool {
				a, _ := key(out[i])
				b, _ := key(out[j])
				return a < b
			})
		}
		sorted[placeType] = out
	}
	return sorted
}
