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

// Package geoip locates targets against a local MaxMind city database.
package geoip

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/lookout-io/lookout/internal/lookup"
)

// Result is one geo lookup. DNS targets are resolved first; ResolvedIP
// records which address was looked up.
type Result struct {
	ResolvedIP  string  `json:"resolved_ip"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Continent   string  `json:"continent,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TimeZone    string  `json:"time_zone,omitempty"`
}

// Provider answers geo lookups from a local database file.
type Provider struct {
	logger   *slog.Logger
	db       *geoip2.Reader
	resolver *net.Resolver
}

// New opens the city database and creates a geoip provider. Callers own the
// returned provider and must Close it on shutdown.
func New(
	logger *slog.Logger,
	dbPath string,
) (*Provider, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening geoip database %s: %w", dbPath, err)
	}

	return &Provider{
		logger:   logger,
		db:       db,
		resolver: net.DefaultResolver,
	}, nil
}

// Close releases the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Validate accepts both IP and DNS targets; names resolve before lookup.
func (p *Provider) Validate(
	_ lookup.Command,
) error {
	return nil
}

// Lookup locates the target address in the city database.
func (p *Provider) Lookup(
	ctx context.Context,
	cmd lookup.Command,
) (any, error) {
	ip, err := p.resolveTarget(ctx, cmd)
	if err != nil {
		return nil, err
	}

	city, err := p.db.City(ip)
	if err != nil {
		return nil, fmt.Errorf("looking up %s in geoip database: %w", ip, err)
	}

	return &Result{
		ResolvedIP:  ip.String(),
		City:        city.City.Names["en"],
		Country:     city.Country.Names["en"],
		CountryCode: city.Country.IsoCode,
		Continent:   city.Continent.Names["en"],
		Latitude:    city.Location.Latitude,
		Longitude:   city.Location.Longitude,
		TimeZone:    city.Location.TimeZone,
	}, nil
}

func (p *Provider) resolveTarget(
	ctx context.Context,
	cmd lookup.Command,
) (net.IP, error) {
	if cmd.TargetKind == lookup.TargetIP {
		ip := net.ParseIP(cmd.Target)
		if ip == nil {
			return nil, fmt.Errorf("invalid ip target: %s", cmd.Target)
		}

		return ip, nil
	}

	addrs, err := p.resolver.LookupIP(ctx, "ip", cmd.Target)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cmd.Target, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses for %s", cmd.Target)
	}

	return addrs[0], nil
}
