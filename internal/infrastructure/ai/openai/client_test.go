package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type recordedCall struct {
	operation string
	status    string
}

type fakeObserver struct {
	calls []recordedCall
}

func (o *fakeObserver) AIRequest(operation, status string, _ time.Duration) {
	o.calls = append(o.calls, recordedCall{operation, status})
}

type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	lastReq  ChatCompletionRequest
	observer *fakeObserver
	client   *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.handler = nil
	s.lastReq = ChatCompletionRequest{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/chat/completions", r.URL.Path)
		s.Equal("Bearer test-key", r.Header.Get("Authorization"))
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&s.lastReq))
		s.handler(w, r)
	}))
	s.observer = &fakeObserver{}
	s.client = NewClient(config.AIConfig{
		BaseURL:     s.server.URL + "/v1/",
		APIKey:      "test-key",
		Model:       "google/gemini-2.5-flash",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}, s.observer, zaptest.NewLogger(s.T()))
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(body any) {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (s *ClientTestSuite) TestCompleteReturnsFirstChoice() {
	s.respond(ChatCompletionResponse{Choices: []Choice{
		{Message: Message{Role: "assistant", Content: `{"meals":[]}`}},
		{Message: Message{Role: "assistant", Content: "ignored"}},
	}})

	out, err := s.client.Complete(context.Background(), outbound.CompletionRequest{
		System: "You plan meals.",
		Prompt: "Plan my week",
	})

	s.Require().NoError(err)
	s.Equal(`{"meals":[]}`, out)
	s.Equal("google/gemini-2.5-flash", s.lastReq.Model)
	s.Require().Len(s.lastReq.Messages, 2)
	s.Equal("system", s.lastReq.Messages[0].Role)
	s.Equal("Plan my week", s.lastReq.Messages[1].Content)
	s.Empty(s.lastReq.Tools)
	s.Equal([]recordedCall{{"complete", "ok"}}, s.observer.calls)
}

func (s *ClientTestSuite) TestGenerateRecipeForcesTool() {
	args := `{"title":"Lentil Soup","ingredients":["1 cup lentils","2 carrots"],"instructions":["Simmer"],"prep_time":"30 mins","cuisine":"Turkish"}`
	s.respond(ChatCompletionResponse{Choices: []Choice{{Message: Message{
		Role: "assistant",
		ToolCalls: []ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: FunctionCall{Name: recipeToolName, Arguments: args},
		}},
	}}}})

	got, err := s.client.GenerateRecipe(context.Background(), outbound.RecipeRequest{Prompt: "soup"})

	s.Require().NoError(err)
	s.Equal("Lentil Soup", got.Title)
	s.Equal([]string{"1 cup lentils", "2 carrots"}, got.Ingredients)
	s.Equal("30 mins", got.PrepTime)
	s.Equal("Turkish", got.Cuisine)

	s.Require().Len(s.lastReq.Tools, 1)
	s.Equal(recipeToolName, s.lastReq.Tools[0].Function.Name)
	s.Require().NotNil(s.lastReq.ToolChoice)
	s.Equal(recipeToolName, s.lastReq.ToolChoice.Function.Name)
	s.Len(s.lastReq.Messages, 1)
}

func (s *ClientTestSuite) TestGenerateRecipeWithoutToolCall() {
	s.respond(ChatCompletionResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "Here is a recipe..."}}}})

	_, err := s.client.GenerateRecipe(context.Background(), outbound.RecipeRequest{Prompt: "soup"})

	s.ErrorIs(err, outbound.ErrNoToolCall)
}

func (s *ClientTestSuite) TestRateLimitedByGateway() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}

	_, err := s.client.Complete(context.Background(), outbound.CompletionRequest{Prompt: "x"})

	s.Require().Error(err)
	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Equal(http.StatusTooManyRequests, appErr.StatusCode())
	s.Equal([]recordedCall{{"complete", "error"}}, s.observer.calls)
}

func (s *ClientTestSuite) TestGatewayFailure() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	_, err := s.client.GenerateRecipe(context.Background(), outbound.RecipeRequest{Prompt: "x"})

	s.Require().Error(err)
	_, ok := errors.As(err)
	s.False(ok)
	s.Contains(err.Error(), "500")
}

func (s *ClientTestSuite) TestEmptyChoices() {
	s.respond(ChatCompletionResponse{})

	_, err := s.client.Complete(context.Background(), outbound.CompletionRequest{Prompt: "x"})

	s.Error(err)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestMessagesOmitsEmptySystem(t *testing.T) {
	msgs := messages("", "hello")
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
}
