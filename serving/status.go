package serving

import (
	"encoding/json"
	"net/http"
)

// CheckStatusResponse defines json to display when asking for status
type CheckStatusResponse struct {
	// Active is true when server is up
	Active bool `json:"active"`
	// Description is more about this serving instance
	Description string `json:"description,omitempty"`
	// ReadOnly is true if topic maps cannot change
	ReadOnly bool `json:"read_only"`
	// Loaded is the number of topic maps in memory
	Loaded int `json:"loaded"`
}

// checkStatusHandler deals with a request to test status on a server
func checkStatusHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	result := CheckStatusResponse{
		Active:      true,
		Description: "Topic maps server",
		ReadOnly:    wrapper.System.Features().ReadOnly,
		Loaded:      len(wrapper.System.Locators()),
	}

	json.NewEncoder(w).Encode(result)
	return nil
}
