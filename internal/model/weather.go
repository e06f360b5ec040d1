package model

// Weather is the condition payload served by the console's weather
// integration endpoint.
type Weather struct {
	City        string  `json:"city"`
	TempC       float64 `json:"temp_c"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon,omitempty"`
	HumidityPct int     `json:"humidity_pct,omitempty"`
	WindKph     float64 `json:"wind_kph,omitempty"`
}
