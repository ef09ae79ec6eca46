package settings

import (
	"time"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

// StoreID is the fixed id of the single settings document.
const StoreID = "store"

type StoreSettings struct {
	ID                 string    `bson:"_id" json:"id"`
	HeroImage          string    `bson:"heroImage" json:"heroImage"`
	Tagline            string    `bson:"tagline" json:"tagline"`
	Description        string    `bson:"description" json:"description"`
	AnnouncementBanner string    `bson:"announcementBanner" json:"announcementBanner"`
	PartnerBrands      []string  `bson:"partnerBrands" json:"partnerBrands"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpdateRequest struct {
	HeroImage          patch.Field[string]   `json:"heroImage"`
	Tagline            patch.Field[string]   `json:"tagline" validate:"omitempty,max=200"`
	Description        patch.Field[string]   `json:"description" validate:"omitempty,max=2000"`
	AnnouncementBanner patch.Field[string]   `json:"announcementBanner" validate:"omitempty,max=300"`
	PartnerBrands      patch.Field[[]string] `json:"partnerBrands"`
}
