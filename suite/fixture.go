package suite

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

// createFixture creates repository name and asserts the 201 and the echoed
// name. Callers defer env.Cleanup before calling it.
func createFixture(t T, client *ghprobe.Client, name, description string) ghprobe.Repository {
	t.Helper()

	resp, err := client.CreateRepository(t.Context(), name, description, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Repository creation failed.")

	repo, err := ghprobe.DecodeRepository(resp)
	require.NoError(t, err, "Created repository could not be decoded.")
	require.Equal(t, name, repo.Name, "Repository name mismatch.")

	return repo
}

// listNames lists the user's repositories and returns their names.
func listNames(t T, client *ghprobe.Client) []string {
	t.Helper()

	resp, err := client.ListRepositories(t.Context(), ghprobe.ListOptions{
		PerPage:   sweepPageSize,
		Sort:      "created",
		Direction: "desc",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Failed to list repositories.")

	repos, err := ghprobe.DecodeRepositories(resp)
	require.NoError(t, err, "Repository list could not be decoded.")

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name)
	}
	return names
}

// expectUnauthorized asserts a 401 whose body names the credential problem.
func expectUnauthorized(t T, entry *report.Entry, resp *ghprobe.Response, what string) {
	t.Helper()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"Expected HTTP 401 Unauthorized for "+what+" without authorization.")
	entry.Pass("Received expected HTTP 401 status code for unauthorized " + what + ".")

	require.True(t, resp.Contains("Bad credentials") || resp.Contains("Unauthorized"),
		"Response should indicate unauthorized access.")
	entry.Pass("Response indicates unauthorized access.")
}
