package ghprobe

// Repository is a snapshot of a repository as returned by the API.
type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	HTMLURL     string `json:"html_url"`
}

// UserProfile is a snapshot of the authenticated user.
type UserProfile struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
}

// Issue is the free-form JSON object returned when an issue is created or
// edited. Accessors return zero values for missing or mistyped fields.
type Issue map[string]interface{}

// Number returns the issue number.
func (i Issue) Number() int {
	// encoding/json decodes every JSON number into float64.
	if n, ok := i["number"].(float64); ok {
		return int(n)
	}
	return 0
}

// Title returns the issue title.
func (i Issue) Title() string {
	return i.str("title")
}

// HTMLURL returns the issue's web URL.
func (i Issue) HTMLURL() string {
	return i.str("html_url")
}

// State returns "open" or "closed".
func (i Issue) State() string {
	return i.str("state")
}

func (i Issue) str(key string) string {
	s, _ := i[key].(string)
	return s
}

// DecodeUserProfile decodes a GET /user response.
func DecodeUserProfile(resp *Response) (UserProfile, error) {
	return Decode[UserProfile](resp)
}

// DecodeRepository decodes a repository creation response.
func DecodeRepository(resp *Response) (Repository, error) {
	return Decode[Repository](resp)
}

// DecodeRepositories decodes a repository listing, preserving order.
func DecodeRepositories(resp *Response) ([]Repository, error) {
	return Decode[[]Repository](resp)
}

// DecodeIssue decodes an issue creation or edit response.
func DecodeIssue(resp *Response) (Issue, error) {
	return Decode[Issue](resp)
}
