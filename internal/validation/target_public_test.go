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

package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/validation"
)

type TargetPublicTestSuite struct {
	suite.Suite
}

func (s *TargetPublicTestSuite) TestClassifyTarget() {
	tests := []struct {
		name             string
		target           string
		allowSingleLabel bool
		wantKind         lookup.TargetKind
		wantNormalized   string
		wantErr          string
	}{
		{
			name:           "valid ipv4",
			target:         "8.8.8.8",
			wantKind:       lookup.TargetIP,
			wantNormalized: "8.8.8.8",
		},
		{
			name:           "valid ipv4 with surrounding whitespace",
			target:         "  1.1.1.1\t",
			wantKind:       lookup.TargetIP,
			wantNormalized: "1.1.1.1",
		},
		{
			name:           "valid ipv6",
			target:         "2001:4860:4860::8888",
			wantKind:       lookup.TargetIP,
			wantNormalized: "2001:4860:4860::8888",
		},
		{
			name:           "ipv6 with zone suffix",
			target:         "fe80::1%eth0",
			wantKind:       lookup.TargetIP,
			wantNormalized: "fe80::1",
		},
		{
			name:    "empty target",
			target:  "",
			wantErr: "target is required",
		},
		{
			name:    "whitespace only target",
			target:  "   ",
			wantErr: "target is required",
		},
		{
			name:    "five octets",
			target:  "1.1.1.1.1",
			wantErr: "invalid IPv4 address format",
		},
		{
			name:    "three octets",
			target:  "1.2.3",
			wantErr: "invalid IPv4 address format",
		},
		{
			name:    "octet out of range",
			target:  "256.1.1.1",
			wantErr: "invalid IPv4 address format",
		},
		{
			name:    "leading zero octet",
			target:  "192.168.001.1",
			wantErr: "invalid IPv4 address format",
		},
		{
			name:    "bare digits",
			target:  "12345",
			wantErr: "invalid IPv4 address format",
		},
		{
			name:           "valid dns name",
			target:         "example.com",
			wantKind:       lookup.TargetDNS,
			wantNormalized: "example.com",
		},
		{
			name:           "dns name with trailing dot",
			target:         "example.com.",
			wantKind:       lookup.TargetDNS,
			wantNormalized: "example.com",
		},
		{
			name:           "dns name with uppercase",
			target:         "Example.COM",
			wantKind:       lookup.TargetDNS,
			wantNormalized: "example.com",
		},
		{
			name:           "internationalized domain name",
			target:         "bücher.example",
			wantKind:       lookup.TargetDNS,
			wantNormalized: "xn--bcher-kva.example",
		},
		{
			name:    "consecutive dots",
			target:  "example..com",
			wantErr: "empty label",
		},
		{
			name:    "leading dot",
			target:  ".example.com",
			wantErr: "empty label",
		},
		{
			name:    "label too long",
			target:  strings.Repeat("a", 64) + ".com",
			wantErr: "between 1 and 63 characters",
		},
		{
			name:    "name too long",
			target:  strings.Repeat(strings.Repeat("a", 61)+".", 5) + "com",
			wantErr: "between 1 and 253 characters",
		},
		{
			name:    "leading hyphen label",
			target:  "-example.com",
			wantErr: "invalid internationalized domain name",
		},
		{
			name:    "invalid character",
			target:  "exa_mple.com",
			wantErr: "invalid internationalized domain name",
		},
		{
			name:    "single label rejected by default",
			target:  "localhost",
			wantErr: "single-label DNS names are not allowed",
		},
		{
			name:             "single label allowed when configured",
			target:           "localhost",
			allowSingleLabel: true,
			wantKind:         lookup.TargetDNS,
			wantNormalized:   "localhost",
		},
		{
			name:    "all numeric tld",
			target:  "example.123",
			wantErr: "top-level domain must not be all digits",
		},
		{
			name:    "numeric rightmost label",
			target:  "foo.example.99",
			wantErr: "top-level domain must not be all digits",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			kind, normalized, err := validation.ClassifyTarget(tc.target, tc.allowSingleLabel)

			if tc.wantErr != "" {
				s.Require().Error(err)
				s.Contains(err.Error(), tc.wantErr)

				return
			}

			s.Require().NoError(err)
			s.Equal(tc.wantKind, kind)
			s.Equal(tc.wantNormalized, normalized)
		})
	}
}

func TestTargetPublicTestSuite(t *testing.T) {
	t.Run("TargetPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(TargetPublicTestSuite))
	})
}
