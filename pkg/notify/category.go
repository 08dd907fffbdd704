package notify

//go:generate go run github.com/dmarkham/enumer -type Category -trimprefix Category -transform lower -json -output category.gen.go

// Category classifies a notification for display.
type Category int

const (
	CategorySuccess Category = iota
	CategoryInfo
	CategoryWarning
	CategoryError
)
