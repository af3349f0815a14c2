package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"opus/internal/identity"
	"opus/internal/platform/middleware"
	"opus/internal/registry/handler"
	"opus/internal/registry/service"
	"opus/internal/registry/store/paper"
	"opus/pkg/domain"
)

const (
	authorHex = "0x00112233445566778899aabbccddeeff00112233"
	otherHex  = "0xfeedfacefeedfacefeedfacefeedfacefeedface"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	author domain.AuthorAddress
	other  domain.AuthorAddress
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	svc := service.New(paper.NewInMemory())
	h := handler.New(svc, slog.New(slog.DiscardHandler))

	s.router = chi.NewRouter()
	h.Register(s.router)

	var err error
	s.author, err = domain.ParseAuthorAddress(authorHex)
	s.Require().NoError(err)
	s.other, err = domain.ParseAuthorAddress(otherHex)
	s.Require().NoError(err)
}

func (s *HandlerSuite) do(method, target string, author *domain.AuthorAddress, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if author != nil {
		req = req.WithContext(middleware.WithAuthor(context.Background(), *author))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) register(title string) map[string]any {
	fp := identity.DeriveFingerprint("content of " + title)
	rec := s.do(http.MethodPost, "/registry/papers", &s.author, handler.RegisterRequest{
		Title:       title,
		Fingerprint: fp.String(),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestRegisterPaper() {
	s.Run("creates the paper and returns the derived bucket id", func() {
		resp := s.register("Spectral Methods")
		want, err := identity.DeriveBucketID("Spectral Methods", s.author)
		s.Require().NoError(err)
		s.Equal(want.String(), resp["bucket_id"])
		s.Equal(float64(1), resp["version_count"])
	})

	s.Run("rejects unauthenticated callers", func() {
		rec := s.do(http.MethodPost, "/registry/papers", nil, handler.RegisterRequest{
			Title:       "No Identity",
			Fingerprint: identity.DeriveFingerprint("x").String(),
		})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("duplicate title answers conflict with reason", func() {
		rec := s.do(http.MethodPost, "/registry/papers", &s.other, handler.RegisterRequest{
			Title:       "Spectral Methods",
			Fingerprint: identity.DeriveFingerprint("copy").String(),
		})
		s.Equal(http.StatusConflict, rec.Code)
		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("duplicate_title", body["reason"])
	})

	s.Run("mismatched bucket id is a validation error", func() {
		rec := s.do(http.MethodPost, "/registry/papers", &s.author, handler.RegisterRequest{
			Title:       "Forged Identity",
			Fingerprint: identity.DeriveFingerprint("x").String(),
			BucketID:    "0x4242424242424242424242424242424242424242424242424242424242424242",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing fingerprint is a validation error", func() {
		rec := s.do(http.MethodPost, "/registry/papers", &s.author, handler.RegisterRequest{
			Title: "No Fingerprint",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed body is a bad request", func() {
		req := httptest.NewRequest(http.MethodPost, "/registry/papers", bytes.NewBufferString("{not json"))
		req = req.WithContext(middleware.WithAuthor(context.Background(), s.author))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestCheckTitle() {
	s.register("Existing Work")

	s.Run("existing title includes owner", func() {
		rec := s.do(http.MethodGet, "/registry/titles?title=Existing+Work", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(true, body["exists"])
		s.Equal(authorHex, body["owner"])
	})

	s.Run("unknown title reports not exists", func() {
		rec := s.do(http.MethodGet, "/registry/titles?title=Unknown", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(false, body["exists"])
		s.NotContains(body, "owner")
	})

	s.Run("missing title query is a validation error", func() {
		rec := s.do(http.MethodGet, "/registry/titles", nil, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestAddVersion() {
	resp := s.register("Living Document")
	bucketID := resp["bucket_id"].(string)

	s.Run("owner appends a version", func() {
		rec := s.do(http.MethodPost, "/registry/papers/"+bucketID+"/versions", &s.author, handler.AddVersionRequest{
			Fingerprint: identity.DeriveFingerprint("v2").String(),
			Description: "expanded results",
		})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(float64(2), body["sequence_number"])
	})

	s.Run("non-owner is forbidden", func() {
		rec := s.do(http.MethodPost, "/registry/papers/"+bucketID+"/versions", &s.other, handler.AddVersionRequest{
			Fingerprint: identity.DeriveFingerprint("v3").String(),
		})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("unknown paper is not found", func() {
		missing := "0x9999999999999999999999999999999999999999999999999999999999999999"
		rec := s.do(http.MethodPost, "/registry/papers/"+missing+"/versions", &s.author, handler.AddVersionRequest{
			Fingerprint: identity.DeriveFingerprint("v1").String(),
		})
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("bad bucket id in path is a validation error", func() {
		rec := s.do(http.MethodPost, "/registry/papers/nothex/versions", &s.author, handler.AddVersionRequest{
			Fingerprint: identity.DeriveFingerprint("v1").String(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestGetPaperAndAuthorPapers() {
	for i := 1; i <= 3; i++ {
		s.register(fmt.Sprintf("Series Part %d", i))
	}

	s.Run("get paper returns the full version chain", func() {
		want, err := identity.DeriveBucketID("Series Part 1", s.author)
		s.Require().NoError(err)
		rec := s.do(http.MethodGet, "/registry/papers/"+want.String(), nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("Series Part 1", body["title"])
		s.Len(body["versions"], 1)
	})

	s.Run("author papers come back in registration order", func() {
		rec := s.do(http.MethodGet, "/registry/authors/"+authorHex+"/papers", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body struct {
			Papers []struct {
				Title string `json:"title"`
			} `json:"papers"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body.Papers, 3)
		for i, p := range body.Papers {
			s.Equal(fmt.Sprintf("Series Part %d", i+1), p.Title)
		}
	})

	s.Run("author with no papers gets an empty list", func() {
		rec := s.do(http.MethodGet, "/registry/authors/"+otherHex+"/papers", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body struct {
			Papers []any `json:"papers"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Empty(body.Papers)
	})
}
