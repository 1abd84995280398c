package domain

// ServiceCategory is a catalog entry a ticket can reference.
type ServiceCategory struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Active      bool
}
