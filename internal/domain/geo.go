package domain

// District is a static reference record for Bangladesh districts.
type District struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	BnName   string `json:"bn_name"`
	Division string `json:"division_id"`
}

// Upazila is a static reference record for sub-districts.
type Upazila struct {
	ID         string `json:"_id"`
	DistrictID string `json:"district_id"`
	Name       string `json:"name"`
	BnName     string `json:"bn_name"`
}
