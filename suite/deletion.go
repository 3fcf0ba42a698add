package suite

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

func deletionScenarios() []Scenario {
	return []Scenario{
		{Name: "testDeleteRepository_Success", Group: GroupDeletion, Run: deleteRepository},
		{Name: "testDeleteNonExistentRepository_Failure", Group: GroupDeletion, Run: deleteNonExistentRepository},
		{Name: "testDeleteRepositoryWithoutAuthorization_Failure", Group: GroupDeletion, Run: deleteRepositoryUnauthorized},
	}
}

func deleteRepository(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	createFixture(t, client, name, "Repository created for deletion test")
	entry.Pass("Repository created: " + name)

	entry.Info("Deleting the repository: " + name)
	resp, err := client.DeleteRepository(t.Context(), name)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "Repository should be deleted successfully")
	entry.Pass("Repository was deleted successfully")

	entry.Info("Verifying deletion by listing repositories")
	require.NotContains(t, listNames(t, client), name, "Deleted repository should not be present in the list")
	entry.Pass("Verified that repository is no longer present")
}

func deleteNonExistentRepository(t T, env *Env, entry *report.Entry) {
	env.Sweep(t, entry)

	client := env.Client(entry)
	name := env.NonExistentName()

	entry.Info("Attempting to delete non-existent repository: " + name)
	resp, err := client.DeleteRepository(t.Context(), name)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "Deleting a non-existent repository should return 404")
	entry.Pass("Deletion of non-existent repository failed as expected with status 404")
}

func deleteRepositoryUnauthorized(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Precondition: Creating repository for unauthorized deletion test: " + name)
	createFixture(t, client, name, "Repository created for unauthorized deletion test")
	entry.Pass("Repository created: " + name)

	entry.Info("Attempting to delete repository without authorization: " + name)
	resp, err := client.DeleteRepositoryUnauthorized(t.Context(), name)
	require.NoError(t, err)
	expectUnauthorized(t, entry, resp, "repository deletion")
}
