package valueobject

import (
	"fmt"
	"strings"
)

// Address is a value object representing an Argentine shipping address.
// It is immutable once constructed; validation happens in the factory.
type Address struct {
	province       string
	locality       string
	street         string
	number         string
	betweenStreets string // optional reference, e.g. "entre Mitre y Belgrano"
	phone          string
}

const (
	maxProvinceLen = 100
	maxLocalityLen = 100
	maxStreetLen   = 120
	maxNumberLen   = 20
	maxBetweenLen  = 200
	maxPhoneLen    = 50
)

// NewAddress creates a validated shipping address
func NewAddress(province, locality, street, number, betweenStreets, phone string) (Address, error) {
	province = strings.TrimSpace(province)
	locality = strings.TrimSpace(locality)
	street = strings.TrimSpace(street)
	number = strings.TrimSpace(number)
	betweenStreets = strings.TrimSpace(betweenStreets)
	phone = strings.TrimSpace(phone)

	if province == "" {
		return Address{}, fmt.Errorf("province cannot be empty")
	}
	if len(province) > maxProvinceLen {
		return Address{}, fmt.Errorf("province cannot exceed %d characters", maxProvinceLen)
	}
	if locality == "" {
		return Address{}, fmt.Errorf("locality cannot be empty")
	}
	if len(locality) > maxLocalityLen {
		return Address{}, fmt.Errorf("locality cannot exceed %d characters", maxLocalityLen)
	}
	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(street) > maxStreetLen {
		return Address{}, fmt.Errorf("street cannot exceed %d characters", maxStreetLen)
	}
	if number == "" {
		return Address{}, fmt.Errorf("street number cannot be empty")
	}
	if len(number) > maxNumberLen {
		return Address{}, fmt.Errorf("street number cannot exceed %d characters", maxNumberLen)
	}
	if len(betweenStreets) > maxBetweenLen {
		return Address{}, fmt.Errorf("between-streets reference cannot exceed %d characters", maxBetweenLen)
	}
	if len(phone) > maxPhoneLen {
		return Address{}, fmt.Errorf("phone cannot exceed %d characters", maxPhoneLen)
	}

	return Address{
		province:       province,
		locality:       locality,
		street:         street,
		number:         number,
		betweenStreets: betweenStreets,
		phone:          phone,
	}, nil
}

// Province returns the province name
func (a Address) Province() string { return a.province }

// Locality returns the locality/city name
func (a Address) Locality() string { return a.locality }

// Street returns the street name
func (a Address) Street() string { return a.street }

// Number returns the street number
func (a Address) Number() string { return a.number }

// BetweenStreets returns the optional between-streets reference
func (a Address) BetweenStreets() string { return a.betweenStreets }

// Phone returns the contact phone
func (a Address) Phone() string { return a.phone }

// String returns a single-line representation of the address
func (a Address) String() string {
	s := fmt.Sprintf("%s %s, %s, %s", a.street, a.number, a.locality, a.province)
	if a.betweenStreets != "" {
		s += " (" + a.betweenStreets + ")"
	}
	return s
}
