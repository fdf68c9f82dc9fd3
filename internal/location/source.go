package location

import "kopi-orderflow/internal/geo"

// PositionSource abstracts the device geolocation capability.
type PositionSource interface {
	// Watch begins continuous position updates, invoking onFix for each fix
	// and onError for recoverable capture errors. The returned clear func
	// unregisters the watch and must be safe to call more than once.
	Watch(onFix func(geo.Coordinate), onError func(error)) (clear func(), err error)
}
