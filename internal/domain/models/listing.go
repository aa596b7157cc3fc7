// internal/domain/models/listing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing status values. "collected" is terminal.
const (
	ListingAvailable = "available"
	ListingCollected = "collected"
)

// Waste-type categories for listings.
const (
	WasteFoodScraps     = "food_scraps"
	WasteVegetablePeels = "vegetable_peels"
	WasteFruitWaste     = "fruit_waste"
	WasteGardenWaste    = "garden_waste"
	WasteGrainWaste     = "grain_waste"
	WasteDairyWaste     = "dairy_waste"
	WasteOther          = "other"
)

// WasteTypes lists every accepted waste-type category.
var WasteTypes = []string{
	WasteFoodScraps, WasteVegetablePeels, WasteFruitWaste,
	WasteGardenWaste, WasteGrainWaste, WasteDairyWaste, WasteOther,
}

// ValidWasteType reports whether t is a known waste-type category.
func ValidWasteType(t string) bool {
	for _, v := range WasteTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Listing is a provider's posted waste item available for claiming.
//
// Quantity is free-form text ("10kg", "3 crates") rather than a number;
// providers describe amounts in whatever unit fits.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Quantity    string             `bson:"quantity" json:"quantity"`
	WasteType   string             `bson:"waste_type" json:"wasteType"`
	Location    GeoPoint           `bson:"location" json:"location"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Status      string             `bson:"status" json:"status"` // available | collected

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
