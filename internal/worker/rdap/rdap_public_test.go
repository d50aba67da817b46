// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package rdap_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/worker/rdap"
)

type RDAPPublicTestSuite struct {
	suite.Suite

	ctx    context.Context
	logger *slog.Logger
}

func (s *RDAPPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *RDAPPublicTestSuite) TestLookupIPTarget() {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = w.Write([]byte(`{"objectClassName": "ip network", "handle": "NET-8-8-8-0-1"}`))
	}))
	defer server.Close()

	provider := rdap.New(s.logger, server.URL, 5*time.Second)

	result, err := provider.Lookup(s.ctx, lookup.Command{
		JobID:      "job-1",
		Target:     "8.8.8.8",
		TargetKind: lookup.TargetIP,
		Kind:       lookup.ServiceRDAP,
	})

	s.Require().NoError(err)
	s.Equal("/ip/8.8.8.8", gotPath)

	raw, ok := result.(json.RawMessage)
	s.Require().True(ok)
	s.JSONEq(`{"objectClassName": "ip network", "handle": "NET-8-8-8-0-1"}`, string(raw))
}

func (s *RDAPPublicTestSuite) TestLookupDNSTarget() {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"objectClassName": "domain"}`))
	}))
	defer server.Close()

	provider := rdap.New(s.logger, server.URL, 5*time.Second)

	_, err := provider.Lookup(s.ctx, lookup.Command{
		Target:     "example.com",
		TargetKind: lookup.TargetDNS,
		Kind:       lookup.ServiceRDAP,
	})

	s.Require().NoError(err)
	s.Equal("/domain/example.com", gotPath)
}

func (s *RDAPPublicTestSuite) TestLookupNonOKStatus() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := rdap.New(s.logger, server.URL, 5*time.Second)

	_, err := provider.Lookup(s.ctx, lookup.Command{
		Target:     "203.0.113.9",
		TargetKind: lookup.TargetIP,
		Kind:       lookup.ServiceRDAP,
	})

	s.Require().Error(err)
	s.Contains(err.Error(), "status 404")
}

func (s *RDAPPublicTestSuite) TestLookupInvalidJSON() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not rdap</html>"))
	}))
	defer server.Close()

	provider := rdap.New(s.logger, server.URL, 5*time.Second)

	_, err := provider.Lookup(s.ctx, lookup.Command{
		Target:     "203.0.113.9",
		TargetKind: lookup.TargetIP,
		Kind:       lookup.ServiceRDAP,
	})

	s.Require().Error(err)
	s.Contains(err.Error(), "not valid json")
}

func TestRDAPPublicTestSuite(t *testing.T) {
	t.Run("RDAPPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(RDAPPublicTestSuite))
	})
}
