package suite

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

func repositoryScenarios() []Scenario {
	return []Scenario{
		{Name: "testCreateNewRepository_Success", Group: GroupRepository, Run: createRepository},
		{Name: "testCreateRepositoryWithInvalidName_Failure", Group: GroupRepository, Run: createRepositoryInvalidName},
		{Name: "testCreateRepositoryWithDuplicateName_Failure", Group: GroupRepository, Run: createRepositoryDuplicate},
		{Name: "testCreateRepositoryWithoutAuthorization_Failure", Group: GroupRepository, Run: createRepositoryUnauthorized},
	}
}

func createRepository(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository: " + name)
	repo := createFixture(t, client, name, "Repository created by test")
	entry.Pass("Received expected HTTP 201 status code for repository creation.")
	entry.Pass("Repository name matches the expected name.")
	entry.Info("Created repository URL: " + repo.HTMLURL)
}

func createRepositoryInvalidName(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	entry.Info("Attempting to create a repository with an invalid name.")

	resp, err := client.CreateRepository(t.Context(), "", "Repository created with invalid name", false)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
		"Expected HTTP 422 Unprocessable Entity for invalid repository name.")
	entry.Pass("Received expected HTTP 422 status code for invalid repository name.")

	require.True(t, resp.Contains("name"), "Response should indicate the issue with the repository name.")
	entry.Pass("Response indicates the issue with the repository name.")
}

func createRepositoryDuplicate(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.Cleanup(t, entry, name)

	entry.Info("Creating repository with name: " + name)
	createFixture(t, client, name, "Initial repository creation for duplicate test")
	entry.Pass("Initial repository created successfully.")

	entry.Info("Attempting to create a duplicate repository with name: " + name)
	resp, err := client.CreateRepository(t.Context(), name, "Duplicate repository creation attempt", false)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
		"Expected HTTP 422 Unprocessable Entity for duplicate repository name.")
	entry.Pass("Received expected HTTP 422 status code for duplicate repository name.")

	require.True(t, resp.Contains("already exists"), "Response should indicate that the repository already exists.")
	entry.Pass("Response indicates that the repository already exists.")
}

func createRepositoryUnauthorized(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	name := env.RepositoryName(6)
	defer env.release(name)

	entry.Info("Attempting to create a repository without proper authorization.")

	resp, err := client.CreateRepositoryUnauthorized(t.Context(), name)
	require.NoError(t, err)
	expectUnauthorized(t, entry, resp, "repository creation")
}
