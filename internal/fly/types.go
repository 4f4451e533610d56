package fly

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Release is the deployment a secrets change triggered. Fly omits it when the app has
// no running machines.
type Release struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// SecretInput is one key of a setSecrets mutation.
type SecretInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// APIError is a failed GraphQL call: the first entry of the errors array, or the HTTP
// status when the body carried none.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	msg := "fly API error: " + e.Message
	if e.Code != "" {
		msg += fmt.Sprintf(" (code: %s)", e.Code)
	}
	return msg
}

type setSecretsData struct {
	SetSecrets struct {
		App struct {
			Name string `json:"name"`
		} `json:"app"`
		Release *Release `json:"release"`
	} `json:"setSecrets"`
}

type unsetSecretsData struct {
	UnsetSecrets struct {
		Release *Release `json:"release"`
	} `json:"unsetSecrets"`
}

type appSecretsData struct {
	App *struct {
		Secrets []struct {
			Name string `json:"name"`
		} `json:"secrets"`
	} `json:"app"`
}

var appNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateAppName rejects names Fly does not allow. Such names would also never form
// a single word in an item title.
func ValidateAppName(app string) error {
	if !appNamePattern.MatchString(app) {
		return fmt.Errorf("invalid fly app name %q: use lowercase letters, digits and dashes", app)
	}
	return nil
}
