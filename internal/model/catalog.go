package model

// Brand mirrors the `brands` table.
type Brand struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	LogoURL         string `json:"logo_url"`
	CountryOfOrigin string `json:"country_of_origin"`
}

// Bike is a catalog entry joined with its brand.  IsTrending keeps the
// 0/1 integer form clients already compare against.
type Bike struct {
	ID              int64  `json:"id"`
	BrandID         int64  `json:"brand_id"`
	ModelName       string `json:"model_name"`
	Type            string `json:"type"`
	EngineCC        int    `json:"engine_cc"`
	PriceOnRoad     int64  `json:"price_on_road"`
	ImageURL        string `json:"image_url"`
	IsTrending      int    `json:"is_trending"`
	BrandName       string `json:"brand_name"`
	CountryOfOrigin string `json:"country_of_origin"`
}

// BikeFilter narrows a catalog listing.  Nil bounds are not applied; Brand
// matches the brand name exactly.
type BikeFilter struct {
	MinPrice *int64
	MaxPrice *int64
	MinCC    *int
	MaxCC    *int
	Brand    string
	Type     string
}

// Dealer is a showroom that can host test rides.
type Dealer struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	LocationArea  string `json:"location_area"`
	ContactNumber string `json:"contact_number"`
}
