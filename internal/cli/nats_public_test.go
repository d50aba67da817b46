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

package cli_test

import (
	"testing"

	natsclient "github.com/osapi-io/nats-client/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/config"
)

type NATSTestSuite struct {
	suite.Suite
}

// stubNATSClient satisfies messaging.NATSClient without being the shared
// client implementation.
type stubNATSClient struct{}

func (stubNATSClient) Connect() error { return nil }

func (suite *NATSTestSuite) TestCloseNATSClient() {
	tests := []struct {
		name    string
		closeFn func()
	}{
		{
			name: "when non-client implementation does not panic",
			closeFn: func() {
				cli.CloseNATSClient(stubNATSClient{})
			},
		},
		{
			name: "when real client with nil NC does not panic",
			closeFn: func() {
				cli.CloseNATSClient(&natsclient.Client{})
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			assert.NotPanics(suite.T(), tc.closeFn)
		})
	}
}

func (suite *NATSTestSuite) TestBuildNATSAuthOptions() {
	tests := []struct {
		name string
		auth config.NATSAuth
		want natsclient.AuthOptions
	}{
		{
			name: "when user_pass returns user pass auth",
			auth: config.NATSAuth{
				Type:     "user_pass",
				Username: "lookout",
				Password: "secret",
			},
			want: natsclient.AuthOptions{
				AuthType: natsclient.UserPassAuth,
				Username: "lookout",
				Password: "secret",
			},
		},
		{
			name: "when nkey returns nkey auth",
			auth: config.NATSAuth{
				Type:     "nkey",
				NKeyFile: "/path/to/nkey",
			},
			want: natsclient.AuthOptions{
				AuthType: natsclient.NKeyAuth,
				NKeyFile: "/path/to/nkey",
			},
		},
		{
			name: "when none returns no auth",
			auth: config.NATSAuth{
				Type: "none",
			},
			want: natsclient.AuthOptions{
				AuthType: natsclient.NoAuth,
			},
		},
		{
			name: "when empty type defaults to no auth",
			auth: config.NATSAuth{},
			want: natsclient.AuthOptions{
				AuthType: natsclient.NoAuth,
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			got := cli.BuildNATSAuthOptions(tc.auth)

			assert.Equal(suite.T(), tc.want, got)
		})
	}
}

func TestNATSTestSuite(t *testing.T) {
	t.Run("NATSTestSuite", func(t *testing.T) {
		suite.Run(t, new(NATSTestSuite))
	})
}
