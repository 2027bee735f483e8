package types

// KeyImager renders the key image shown for a state
type KeyImager interface {
	// DataURI returns the image encoded as a data URI suitable for setImage
	DataURI(state KeyState) (string, error)
}
