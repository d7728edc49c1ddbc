package model

type (
	// Location defines the model for a rental location.
	Location struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// Car defines the model for a vehicle in the rental fleet.
	Car struct {
		ID           int64  `json:"id"`
		Make         string `json:"make"`
		Model        string `json:"model"`
		Year         int    `json:"year"`
		Category     string `json:"category"`
		FuelType     string `json:"fuelType"`
		Transmission string `json:"transmission"`
		Seats        int    `json:"seats"`
		PricePerDay  int64  `json:"pricePerDay"`
		ImageURL     string `json:"imageUrl"`
		LocationID   int64  `json:"locationId"`
		IsAvailable  bool   `json:"isAvailable"`
	}
)
