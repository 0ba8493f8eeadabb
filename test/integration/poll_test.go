package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibepulse/api/internal/core/domain"
)

type pollEnvelope struct {
	Data domain.Poll `json:"data"`
}

type pollDetail struct {
	domain.Poll
	Results *domain.PollResults `json:"results"`
}

type pollDetailEnvelope struct {
	Data pollDetail `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func createPoll(t *testing.T, app *TestApp, payload map[string]any) domain.Poll {
	t.Helper()

	body, _ := json.Marshal(payload)
	resp, err := app.Client.Post(app.Server.URL+"/api/polls", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env pollEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

func TestCreateAndGetPoll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := createPoll(t, app, map[string]any{
		"question": "Which editor do you use?",
		"options": []any{
			"Vim",
			map[string]any{"text": "VS Code", "imageUrl": "https://cdn.example.com/vscode.png"},
		},
		"tags": []string{"#dev", "tools"},
	})

	assert.Equal(t, "Which editor do you use?", poll.Question)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, "Vim", poll.Options[0].Text)
	assert.Nil(t, poll.Options[0].ImageURL)
	assert.Equal(t, "VS Code", poll.Options[1].Text)
	require.NotNil(t, poll.Options[1].ImageURL)
	// Tags come back normalized with the leading # stripped.
	assert.ElementsMatch(t, []string{"dev", "tools"}, poll.Tags)
	assert.True(t, poll.IsActive)

	resp, err := app.Client.Get(fmt.Sprintf("%s/api/polls/%s", app.Server.URL, poll.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env pollDetailEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	assert.Equal(t, poll.ID, env.Data.ID)
	require.NotNil(t, env.Data.Results)
	assert.Equal(t, int64(0), env.Data.Results.Total)
	require.Len(t, env.Data.Results.Options, 2)
	assert.Equal(t, float64(0), env.Data.Results.Options[0].Percentage)
}

func TestCreatePollValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"question too short", map[string]any{"question": "Hi?", "options": []any{"A", "B"}}},
		{"single option", map[string]any{"question": "Is one option enough?", "options": []any{"A"}}},
		{"too many options", map[string]any{"question": "Too many choices here?", "options": []any{"A", "B", "C", "D", "E"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			resp, err := app.Client.Post(app.Server.URL+"/api/polls", "application/json", bytes.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var env errorEnvelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		})
	}
}

func TestGetPollNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp, err := app.Client.Get(app.Server.URL + "/api/polls/0b944510-04d5-46b8-bb7a-f3e457b0c2d5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "POLL_NOT_FOUND", env.Error.Code)
}

func TestListPollsByTag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	createPoll(t, app, map[string]any{
		"question": "Best programming language?",
		"options":  []any{"Go", "Rust"},
		"tags":     []string{"dev"},
	})
	createPoll(t, app, map[string]any{
		"question": "Favorite coffee style?",
		"options":  []any{"Espresso", "Filter"},
		"tags":     []string{"food"},
	})

	resp, err := app.Client.Get(app.Server.URL + "/api/polls?tag=dev")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Polls      []domain.PollSummary `json:"polls"`
		NextCursor string               `json:"nextCursor"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))

	require.Len(t, list.Polls, 1)
	assert.Equal(t, "Best programming language?", list.Polls[0].Question)
	assert.Empty(t, list.NextCursor)
}

func TestDeactivatePoll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	creatorID, creatorToken := createUserAndToken(t, app.DB)
	_, otherToken := createUserAndToken(t, app.DB)

	// Create as the authenticated creator.
	body, _ := json.Marshal(map[string]any{
		"question": "Should we keep this poll?",
		"options":  []any{"Yes", "No"},
	})
	req, err := http.NewRequest("POST", app.Server.URL+"/api/polls", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: creatorToken})
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env pollEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	require.NotNil(t, env.Data.CreatorID)
	require.Equal(t, creatorID, *env.Data.CreatorID)
	poll := env.Data

	// Someone else cannot deactivate it.
	req, err = http.NewRequest("DELETE", fmt.Sprintf("%s/api/polls/%s", app.Server.URL, poll.ID), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: otherToken})
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The creator can.
	req, err = http.NewRequest("DELETE", fmt.Sprintf("%s/api/polls/%s", app.Server.URL, poll.ID), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: creatorToken})
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deactivated polls no longer accept votes.
	voteBody, _ := json.Marshal(map[string]any{"optionIndex": 0, "fingerprint": "fp-after-close"})
	resp, err = app.Client.Post(fmt.Sprintf("%s/api/polls/%s/vote", app.Server.URL, poll.ID), "application/json", bytes.NewReader(voteBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
