package geo

// Coordinate is a point in floating-point degrees. Coordinates are ephemeral:
// they live in memory for the duration of a tracking session and are never
// persisted by this client.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
