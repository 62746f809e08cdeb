package domain

type SpotStatus string

const (
	SpotStatusAvailable SpotStatus = "Available"
	SpotStatusHeld      SpotStatus = "Held"
	SpotStatusOccupied  SpotStatus = "Occupied"
)

type ParkingLot struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Capacity         int      `json:"capacity"`
	CurrentOccupancy int      `json:"current_occupancy"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

type ParkingSpot struct {
	ID     string     `json:"id"`
	LotID  string     `json:"lot_id"`
	Label  string     `json:"label"`
	Status SpotStatus `json:"status"`
}
