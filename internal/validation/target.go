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

package validation

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/lookout-io/lookout/internal/lookup"
)

const maxDNSNameLength = 253

// numericish matches strings made only of digits and dots. A string in
// this shape that fails IP parsing is a malformed IPv4 address, never a
// DNS name.
var numericish = regexp.MustCompile(`^[0-9.]+$`)

// ClassifyTarget validates a raw lookup target and classifies it as an IP
// address or a DNS name. The returned string is the normalized form: the
// literal address for IPs, the ASCII (punycode) name for DNS.
//
// IPv4 is validated more strictly than the parser alone: exactly four
// decimal octets in [0,255] with no leading zero on multi-digit octets.
// Octet-style strings that reasonable validators disagree on are refused.
func ClassifyTarget(
	target string,
	allowSingleLabel bool,
) (lookup.TargetKind, string, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "", "", errors.New("target is required")
	}

	// Zone suffixes scope link-local IPv6 addresses; they never appear in
	// DNS names, so strip before parsing.
	host := trimmed
	if i := strings.IndexByte(host, '%'); i >= 0 {
		host = host[:i]
	}

	if ip := net.ParseIP(host); ip != nil {
		if !strings.Contains(host, ":") {
			if err := checkStrictIPv4(host); err != nil {
				return "", "", err
			}
		}

		return lookup.TargetIP, host, nil
	}

	if numericish.MatchString(host) {
		return "", "", fmt.Errorf("invalid IPv4 address format: %q", host)
	}

	ascii, err := normalizeDNSName(trimmed, allowSingleLabel)
	if err != nil {
		return "", "", err
	}

	return lookup.TargetDNS, ascii, nil
}

// checkStrictIPv4 enforces the four-octet dotted form beyond what the
// parser accepts.
func checkStrictIPv4(
	s string,
) error {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return fmt.Errorf("invalid IPv4 address format: %q", s)
	}

	for _, o := range octets {
		if len(o) == 0 || len(o) > 3 {
			return fmt.Errorf("invalid IPv4 address format: %q", s)
		}
		if len(o) > 1 && o[0] == '0' {
			return fmt.Errorf("invalid IPv4 address format: octet with leading zero in %q", s)
		}
		n := 0
		for _, c := range o {
			if c < '0' || c > '9' {
				return fmt.Errorf("invalid IPv4 address format: %q", s)
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return fmt.Errorf("invalid IPv4 address format: octet out of range in %q", s)
		}
	}

	return nil
}

// normalizeDNSName validates a DNS name and returns its ASCII form.
func normalizeDNSName(
	name string,
	allowSingleLabel bool,
) (string, error) {
	// A single trailing dot marks a fully qualified name and is dropped.
	name = strings.TrimSuffix(name, ".")

	if name == "" || len(name) > maxDNSNameLength {
		return "", fmt.Errorf("DNS name must be between 1 and %d characters", maxDNSNameLength)
	}

	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return "", errors.New("DNS name contains an empty label")
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("invalid internationalized domain name: %q", name)
	}

	if len(ascii) > maxDNSNameLength {
		return "", fmt.Errorf("DNS name must be between 1 and %d characters", maxDNSNameLength)
	}

	labels := strings.Split(ascii, ".")
	if !allowSingleLabel && len(labels) < 2 {
		return "", errors.New("single-label DNS names are not allowed")
	}

	for _, label := range labels {
		if err := checkLabel(label); err != nil {
			return "", err
		}
	}

	if allDigits(labels[len(labels)-1]) {
		return "", errors.New("top-level domain must not be all digits")
	}

	return ascii, nil
}

func checkLabel(
	label string,
) error {
	if len(label) == 0 || len(label) > 63 {
		return fmt.Errorf("DNS label %q must be between 1 and 63 characters", label)
	}

	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("DNS label %q must not start or end with a hyphen", label)
	}

	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return fmt.Errorf("DNS label %q contains invalid character %q", label, c)
		}
	}

	return nil
}

func allDigits(
	s string,
) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return len(s) > 0
}
