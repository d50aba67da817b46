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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/cli"
)

type UITestSuite struct {
	suite.Suite
}

func (suite *UITestSuite) TestFormatAge() {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "when zero returns empty",
			d:    0,
			want: "",
		},
		{
			name: "when seconds only",
			d:    30 * time.Second,
			want: "30s",
		},
		{
			name: "when minutes only",
			d:    45 * time.Minute,
			want: "45m",
		},
		{
			name: "when hours and minutes",
			d:    12*time.Hour + 30*time.Minute,
			want: "12h 30m",
		},
		{
			name: "when days and hours",
			d:    3*24*time.Hour + 4*time.Hour,
			want: "3d 4h",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.want, cli.FormatAge(tc.d))
		})
	}
}

func (suite *UITestSuite) TestFormatList() {
	tests := []struct {
		name string
		list []string
		want string
	}{
		{
			name: "when empty returns None",
			list: nil,
			want: "None",
		},
		{
			name: "when single item",
			list: []string{"ping"},
			want: "ping",
		},
		{
			name: "when multiple items joins with comma",
			list: []string{"geoip", "ping", "rdap"},
			want: "geoip, ping, rdap",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.want, cli.FormatList(tc.list))
		})
	}
}

func TestUITestSuite(t *testing.T) {
	t.Run("UITestSuite", func(t *testing.T) {
		suite.Run(t, new(UITestSuite))
	})
}
