package suite

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

func userScenarios() []Scenario {
	return []Scenario{
		{Name: "testGetUserProfile_Success", Group: GroupUser, Run: getUserProfile},
		{Name: "testGetUserProfile_InvalidToken", Group: GroupUser, Run: getUserProfileInvalidToken},
	}
}

func getUserProfile(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	entry.Info("Retrieving user profile with a valid token.")

	resp, err := client.AuthenticatedUser(t.Context())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for a valid user profile.")

	profile, err := ghprobe.DecodeUserProfile(resp)
	require.NoError(t, err, "UserProfile could not be decoded.")
	entry.Pass("UserProfile retrieved successfully.")

	require.NotEmpty(t, profile.Login, "'login' field should not be empty.")
	entry.Pass("User login is: " + profile.Login)
}

func getUserProfileInvalidToken(t T, env *Env, entry *report.Entry) {
	client := env.Client(entry)
	entry.Info("Attempting to retrieve a user profile with an invalid token.")

	resp, err := client.AuthenticatedUserUnauthorized(t.Context())
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected 401 for an invalid token.")
	entry.Pass("Received 401 Unauthorized status.")
}
