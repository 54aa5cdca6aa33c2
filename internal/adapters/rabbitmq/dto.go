package rabbitmq

// PropertyChangedDTO is the body of a property.changed event.
type PropertyChangedDTO struct {
	PropertyID string `json:"property_id"`
	All        bool   `json:"all"`
}
