// Package api exposes the challenge operations over HTTP. Every endpoint
// requires a bearer token; internal failures surface to callers as an
// opaque error while the cause is logged server-side.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lexiquiz/internal/auth"
	"lexiquiz/internal/challenge"
	"lexiquiz/internal/domain"
	"lexiquiz/internal/errors"
)

const principalKey = "principal"

// ChallengeService is the slice of challenge.Service the API needs.
type ChallengeService interface {
	StartChallenge(ctx context.Context, req challenge.StartChallengeRequest) (*challenge.StartChallengeResponse, error)
	FinishChallenge(ctx context.Context, req challenge.FinishChallengeRequest) error
	ListChallenges(ctx context.Context, req challenge.ListChallengesRequest) ([]domain.Challenge, error)
}

type Config struct {
	Engine    *gin.Engine
	Auth      auth.Resolver
	Challenge ChallengeService
}

type API struct {
	auth auth.Resolver
	cs   ChallengeService
}

func New(c Config) *API {
	a := &API{
		auth: c.Auth,
		cs:   c.Challenge,
	}

	v1 := c.Engine.Group("/v1", a.authenticate)
	v1.POST("/challenges", a.StartChallenge)
	v1.POST("/challenges/:id/finish", a.FinishChallenge)
	v1.GET("/challenges", a.GetChallenges)

	return a
}

func (a *API) authenticate(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		a.abort(c, errors.Unauthenticated("a challenge requires being logged in"))
		return
	}

	p, err := a.auth.Resolve(c.Request.Context(), token)
	if err != nil {
		a.abort(c, err)
		return
	}

	c.Set(principalKey, p)
	c.Next()
}

func principal(c *gin.Context) auth.Principal {
	return c.MustGet(principalKey).(auth.Principal)
}

type (
	startChallengeRequest struct {
		// Count is the number of quiz words requested.
		Count int `json:"count"`
	}

	wordPayload struct {
		Key          string            `json:"key"`
		Translations map[string]string `json:"translations"`
	}

	startChallengeResponse struct {
		Status  string        `json:"status"`
		Code    int           `json:"code"`
		ID      string        `json:"id"`
		Words   []wordPayload `json:"words"`
		Lang    string        `json:"lang"`
		Message string        `json:"message"`
	}
)

func (a *API) StartChallenge(c *gin.Context) {
	var req startChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.abort(c, errors.InvalidArgumentf("malformed request body"))
		return
	}

	resp, err := a.cs.StartChallenge(c.Request.Context(), challenge.StartChallengeRequest{
		UserID: principal(c).UserID,
		Count:  req.Count,
	})
	if err != nil {
		a.abort(c, err)
		return
	}

	words := make([]wordPayload, 0, len(resp.Words))
	for _, w := range resp.Words {
		words = append(words, wordPayload{
			Key:          w.Key,
			Translations: w.Translations,
		})
	}

	c.JSON(http.StatusCreated, startChallengeResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		ID:      resp.ChallengeID,
		Words:   words,
		Lang:    resp.Lang,
		Message: "Successfully started a new challenge instance!",
	})
}

type (
	finishChallengeRequest struct {
		Correct   *int32           `json:"correct"`
		Incorrect *int32           `json:"incorrect"`
		Score     *decimal.Decimal `json:"score"`
	}

	statusResponse struct {
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

func (a *API) FinishChallenge(c *gin.Context) {
	var req finishChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.abort(c, errors.InvalidArgumentf("malformed request body"))
		return
	}

	err := a.cs.FinishChallenge(c.Request.Context(), challenge.FinishChallengeRequest{
		UserID:      principal(c).UserID,
		ChallengeID: c.Param("id"),
		Correct:     req.Correct,
		Incorrect:   req.Incorrect,
		Score:       req.Score,
	})
	if err != nil {
		a.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Successfully saved a challenge instance.",
	})
}

type (
	challengePayload struct {
		ID        string           `json:"id"`
		Start     string           `json:"start"`
		End       *string          `json:"end,omitempty"`
		Correct   *int32           `json:"correct,omitempty"`
		Incorrect *int32           `json:"incorrect,omitempty"`
		Score     *decimal.Decimal `json:"score,omitempty"`
	}

	getChallengesResponse struct {
		Status     string             `json:"status"`
		Code       int                `json:"code"`
		Message    string             `json:"message"`
		Challenges []challengePayload `json:"challenges"`
	}
)

func (a *API) GetChallenges(c *gin.Context) {
	list, err := a.cs.ListChallenges(c.Request.Context(), challenge.ListChallengesRequest{
		UserID: principal(c).UserID,
	})
	if err != nil {
		a.abort(c, err)
		return
	}

	challenges := make([]challengePayload, 0, len(list))
	for _, ch := range list {
		p := challengePayload{
			ID:        ch.ChallengeID,
			Start:     ch.StartTime.UTC().Format(timeFormat),
			Correct:   ch.Correct,
			Incorrect: ch.Incorrect,
			Score:     ch.Score,
		}
		if ch.EndTime != nil {
			end := ch.EndTime.UTC().Format(timeFormat)
			p.End = &end
		}
		challenges = append(challenges, p)
	}

	c.JSON(http.StatusOK, getChallengesResponse{
		Status:     "success",
		Code:       http.StatusOK,
		Message:    "Successfully retrieved challenge scores",
		Challenges: challenges,
	})
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func (a *API) abort(c *gin.Context, err error) {
	e := errors.Convert(err)

	msg := e.Message
	if e.Code == errors.CodeInternal {
		// Never leak storage internals to the client.
		slog.ErrorContext(c.Request.Context(), "api: internal error",
			"path", c.FullPath(),
			"error", err,
		)
		msg = "An internal error occurred."
	}

	c.AbortWithStatusJSON(e.HTTPStatusCode(), statusResponse{
		Status:  "error",
		Code:    e.HTTPStatusCode(),
		Message: msg,
	})
}
