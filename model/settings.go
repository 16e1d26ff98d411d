package model

// Settings is the process-wide configuration for rating bounds and the
// analytics shrinkage prior. Stored values are merged over the defaults at
// load time, so fields absent from legacy data keep their default.
type Settings struct {
	RatingMin   float64 `json:"ratingMin"`
	RatingMax   float64 `json:"ratingMax"`
	ShrinkageC  float64 `json:"shrinkageC"`
	SidebarMode string  `json:"sidebarMode"`
}

// DefaultSettings returns the settings in force when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		RatingMin:   1,
		RatingMax:   10,
		ShrinkageC:  5,
		SidebarMode: "album",
	}
}

// SettingsPatch carries a partial settings update. A nil field is left
// untouched.
type SettingsPatch struct {
	RatingMin   *float64 `json:"ratingMin"`
	RatingMax   *float64 `json:"ratingMax"`
	ShrinkageC  *float64 `json:"shrinkageC"`
	SidebarMode *string  `json:"sidebarMode"`
}
