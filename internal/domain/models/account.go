// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. Role is fixed at registration and never changes.
const (
	RoleProvider  = "provider"
	RoleCollector = "collector"
)

// Organization categories an account can register under.
const (
	OrgFarm       = "farm"
	OrgRestaurant = "restaurant"
	OrgGrocery    = "grocery"
	OrgSchool     = "school"
	OrgNGO        = "ngo"
	OrgComposter  = "composter"
	OrgBiogas     = "biogas"
	OrgOther      = "other"
)

// OrganizationTypes lists every accepted organization category.
var OrganizationTypes = []string{
	OrgFarm, OrgRestaurant, OrgGrocery, OrgSchool, OrgNGO, OrgComposter, OrgBiogas, OrgOther,
}

// ValidOrganizationType reports whether t is a known organization category.
func ValidOrganizationType(t string) bool {
	for _, v := range OrganizationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// GeoPoint is a GeoJSON point: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Account represents a provider or collector identity.
//
// The password hash is bcrypt and never leaves the server (json:"-").
type Account struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	PasswordHash     string             `bson:"password_hash" json:"-"`
	Role             string             `bson:"role" json:"role"` // provider | collector
	OrganizationType string             `bson:"organization_type" json:"organizationType"`
	Contact          string             `bson:"contact,omitempty" json:"contact,omitempty"`
	ProfilePicture   string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Location         *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
