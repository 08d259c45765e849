package models

// SubmitQueryRequest is the body of POST /v1/queries.
type SubmitQueryRequest struct {
	Query string `json:"query"`
}

// ViewRequest is the body of PUT /v1/map/view.
type ViewRequest struct {
	// View selects a tab: sublocations, waterpoints or both.
	View string `json:"view,omitempty"`

	// Toggle flips a single layer's visibility instead of switching tabs.
	// Only honored in the both view.
	Toggle string `json:"toggle,omitempty"`
}
