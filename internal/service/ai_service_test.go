package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose", `Sure! Here is the plan: {"a":1} Let me know.`, `{"a":1}`},
		{"no object", "no json here", "no json here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestGenerateRoadmapParsesFencedJSON(t *testing.T) {
	reply := "```json\n{\"roadmap\":[{\"dayIndex\":1,\"title\":\"Basics\",\"timeEstimate\":90}]}\n```"
	server := chatServer(t, reply)
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"})
	roadmap, err := svc.GenerateRoadmap("some content", 1, model.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, roadmap.Roadmap, 1)
	assert.Equal(t, "Basics", roadmap.Roadmap[0].Title)
	assert.Equal(t, 90, roadmap.Roadmap[0].TimeEstimate)
}

func TestGenerateQuizMalformedResponse(t *testing.T) {
	server := chatServer(t, "definitely not json")
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"})
	_, err := svc.GenerateQuiz("topic content", model.LanguageEnglish)
	assert.Error(t, err)
}

func TestChatUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key"})
	_, err := svc.Chat("system", "prompt")
	assert.Error(t, err)
}

func TestMentorChatSubstitutesTemplate(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Messages[1].Content
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Study daily."}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key"})
	answer, err := svc.MentorChat("How do I catch up?", `{"completedTopics":3}`, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Study daily.", answer)
	assert.Contains(t, gotPrompt, "How do I catch up?")
	assert.Contains(t, gotPrompt, `{"completedTopics":3}`)
	assert.NotContains(t, gotPrompt, "{question}")
	assert.NotContains(t, gotPrompt, "{progress}")
}

func TestRoadmapPromptLanguages(t *testing.T) {
	assert.Contains(t, roadmapPrompt(7, model.LanguageEnglish), "7-day learning roadmap")
	assert.Contains(t, roadmapPrompt(7, model.LanguageFrench), "7 jours")
}
