package location

import "errors"

// ErrUnavailable means the device denied or cannot provide geolocation.
// Reporter mode degrades to no outgoing reports; it never crashes the view.
var ErrUnavailable = errors.New("device location unavailable")
