package delivery

import (
	"math"
	"regexp"
	"strconv"

	"furnistore/internal/model"
)

// postalCodePattern matches a six digit Indian PIN code.
var postalCodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// kmPerSortingDistrict scales the gap between two sorting districts into a
// pseudo-distance. This path has no geocoding behind it.
const kmPerSortingDistrict = 10

// ValidPostalCode reports whether pin is a well-formed PIN code.
func ValidPostalCode(pin string) bool {
	return postalCodePattern.MatchString(pin)
}

// PostalDistanceKm derives a mocked distance between two PIN codes from the
// difference of their three digit sorting-district prefixes.
func PostalDistanceKm(pin, origin string) (float64, error) {
	if !ValidPostalCode(pin) || !ValidPostalCode(origin) {
		return 0, model.ErrInvalidPostalCode
	}

	// Both values were matched against postalCodePattern, so Atoi cannot fail.
	to, _ := strconv.Atoi(pin[:3])
	from, _ := strconv.Atoi(origin[:3])

	return math.Abs(float64(to-from)) * kmPerSortingDistrict, nil
}
