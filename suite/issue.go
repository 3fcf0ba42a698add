package suite

import (
	"net/http"
	"strconv"

	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

const issueFixtureDescription = "Repository created for issue test"

func issueScenarios() []Scenario {
	return []Scenario{
		{Name: "testCreateIssue_Success", Group: GroupIssue, Run: createIssue},
		{Name: "testCreateIssueWithoutTitle_Failure", Group: GroupIssue, Run: createIssueWithoutTitle},
		{Name: "testCreateIssueInNonExistentRepository_Failure", Group: GroupIssue, Run: createIssueNonExistentRepository},
		{Name: "testCreateIssueWithoutAuthorization_Failure", Group: GroupIssue, Run: createIssueUnauthorized},
	}
}

func createIssue(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	ctx := t.Context()
	name := env.RepositoryName(8)
	title := "Test Issue - " + env.hex(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, issueFixtureDescription)
	entry.Pass("Repository created successfully: " + name)

	owner := env.Owner()
	entry.Info("Creating an issue in repository: " + name)
	resp, err := client.CreateIssue(ctx, owner, name, title, "This is a sample issue created by ghprobe.")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Issue creation failed.")
	entry.Pass("Issue created successfully with title: " + title)

	issue, err := ghprobe.DecodeIssue(resp)
	require.NoError(t, err, "Issue could not be decoded.")
	require.Equal(t, title, issue.Title(), "Issue title mismatch.")
	entry.Pass("Verified issue title: " + title)
	entry.Pass("Issue URL: " + issue.HTMLURL())

	number := issue.Number()
	resp, err = client.CloseIssue(ctx, owner, name, number)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Closing issue failed.")
	entry.Pass("Issue closed successfully: #" + strconv.Itoa(number))
}

func createIssueWithoutTitle(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(8)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, issueFixtureDescription)
	entry.Pass("Repository created successfully: " + name)

	entry.Info("Attempting to create an issue without a title in repository: " + name)
	resp, err := client.CreateIssue(t.Context(), env.Owner(), name, "", "Issue without a title should fail.")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
		"Expected HTTP 422 Unprocessable Entity for missing title.")
	entry.Pass("Received expected HTTP 422 status code for missing title.")

	require.True(t, resp.Contains("title"), "Response should indicate the issue with the missing title.")
	entry.Pass("Response indicates the issue with the missing title.")
}

func createIssueNonExistentRepository(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.NonExistentName()

	entry.Info("Attempting to create an issue in non-existent repository: " + name)
	resp, err := client.CreateIssue(t.Context(), env.Owner(), name,
		"Issue in Non-Existent Repo",
		"This issue creation should fail as the repository does not exist.")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode,
		"Creating issue in non-existent repository should return 404")
	entry.Pass("Issue creation in non-existent repository failed as expected with status 404")
}

func createIssueUnauthorized(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, "Repository created for unauthorized issue creation test")
	entry.Pass("Repository created successfully: " + name)

	entry.Info("Attempting to create an issue without authorization in repository: " + name)
	resp, err := client.CreateIssueUnauthorized(t.Context(), env.Owner(), name,
		"Unauthorized Issue Creation",
		"This issue creation should fail due to lack of authorization.")
	require.NoError(t, err)
	expectUnauthorized(t, entry, resp, "issue creation")
}
