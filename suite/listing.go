package suite

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

const listFixtureDescription = "Repository created for list test"

func listingScenarios() []Scenario {
	return []Scenario{
		{Name: "testListUserRepositories_Success", Group: GroupListing, Run: listRepositories},
		{Name: "testListRepositories_WhenEmpty", Group: GroupListing, Run: listRepositoriesWhenEmpty},
	}
}

func listRepositories(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, listFixtureDescription)
	entry.Pass("Repository created: " + name)

	entry.Info("Listing user repositories.")
	names := listNames(t, client)
	require.NotEmpty(t, names, "Repository list is empty.")
	require.Contains(t, names, name, "Created repository not found in the list.")
	entry.Pass("Repositories listed successfully and created repository is present.")
}

func listRepositoriesWhenEmpty(t T, env *Env, entry *report.Entry) {
	env.Sweep(t, entry)

	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, listFixtureDescription)
	entry.Pass("Repository created: " + name)

	entry.Info("Deleting repository to simulate empty repository list.")
	resp, err := client.DeleteRepository(t.Context(), name)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "Failed to delete repository.")
	entry.Pass("Repository deleted successfully.")

	entry.Info("Listing user repositories.")
	require.NotContains(t, listNames(t, client), name, "Deleted repository should not be present in the list.")
	entry.Pass("Repository list is empty as expected.")
}
