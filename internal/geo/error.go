package geo

import "errors"

var (
	ErrNoResult = errors.New("no geocoding result for address")
	ErrNoRoute  = errors.New("no route between coordinates")
)
