package optimize

import (
	"strings"

	"github.com/martinreed/routeboard/pkg/models"
)

// Clusterer partitions a booking batch into groups of at most maxSize that
// should share a route. Implementations must be deterministic for a fixed
// input order and must assign every booking to exactly one group.
type Clusterer interface {
	Cluster(bookings []models.Booking, maxSize int) [][]models.Booking
}

// PostcodePrefixClusterer groups bookings whose postcodes share the same
// outward code (the part before the first space).
//
// It is a single-pass first-fit heuristic: bookings are scanned in input
// order, each unprocessed booking seeds a group, and later bookings with the
// same prefix join it. A booking is never reconsidered once grouped, so the
// result is not guaranteed to minimize route count. Groups larger than
// maxSize are split into consecutive chunks preserving input order.
type PostcodePrefixClusterer struct{}

func (PostcodePrefixClusterer) Cluster(bookings []models.Booking, maxSize int) [][]models.Booking {
	if maxSize < 1 {
		maxSize = 1
	}

	var groups [][]models.Booking
	processed := make([]bool, len(bookings))

	for i, b := range bookings {
		if processed[i] {
			continue
		}

		group := []models.Booking{b}
		processed[i] = true
		prefix := postcodePrefix(b.Postcode)

		for j := i + 1; j < len(bookings); j++ {
			if processed[j] {
				continue
			}
			if postcodePrefix(bookings[j].Postcode) == prefix {
				group = append(group, bookings[j])
				processed[j] = true
			}
		}

		for len(group) > maxSize {
			groups = append(groups, group[:maxSize])
			group = group[maxSize:]
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

// postcodePrefix returns the outward code: everything before the first space.
// A postcode with no space is its own full prefix, so malformed postcodes
// only group with exact duplicates.
func postcodePrefix(postcode string) string {
	prefix, _, _ := strings.Cut(postcode, " ")
	return prefix
}
