package pkguid

// StringID generates unique string identifiers.
type StringID interface {
	// Generate generates a unique identifier as a string.
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	// Generate generates a unique identifier as an int64 number.
	Generate() int64
}

// ResettableNumberID is a NumberID whose sequence can be restarted.
type ResettableNumberID interface {
	NumberID
	// Reset restarts the sequence from its initial value.
	Reset()
}
