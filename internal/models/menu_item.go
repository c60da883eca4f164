package models

type MenuItem struct {
	ID          string  `json:"id" mapstructure:"id"`
	Name        string  `json:"name" mapstructure:"name"`
	Price       float64 `json:"price" mapstructure:"price"`
	Category    string  `json:"category" mapstructure:"category"`
	Description string  `json:"description" mapstructure:"description"`
	ImageURL    string  `json:"image_url,omitempty" mapstructure:"image_url"`
}
