package config

// District represents a city district served by the foundation.
type District struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SupportedDistricts is the list of districts the listing form offers.
var SupportedDistricts = []District{
	{Name: "Алмалинский", Slug: "almalinsky"},
	{Name: "Ауэзовский", Slug: "auezovsky"},
	{Name: "Бостандыкский", Slug: "bostandyksky"},
	{Name: "Жетысуский", Slug: "zhetysusky"},
	{Name: "Медеуский", Slug: "medeusky"},
	{Name: "Наурызбайский", Slug: "nauryzbaysky"},
	{Name: "Турксибский", Slug: "turksibsky"},
	{Name: "Алатауский", Slug: "alatausky"},
}

// GetDistrictNames returns the display names of the supported districts.
func GetDistrictNames() []string {
	names := make([]string, len(SupportedDistricts))
	for i, district := range SupportedDistricts {
		names[i] = district.Name
	}
	return names
}

// GetDistrictBySlug returns a district configuration by slug.
func GetDistrictBySlug(slug string) *District {
	for _, district := range SupportedDistricts {
		if district.Slug == slug {
			return &district
		}
	}
	return nil
}
