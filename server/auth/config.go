package auth

import (
	"fmt"
	"strings"
)

type Config struct {
	// Secret verifies locally issued HS256 bearer tokens. Ignored when
	// UserInfoURL is set.
	Secret string `toml:"secret"`
	// Issuer and Audience are enforced on local tokens when non-empty.
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
	// UserInfoURL switches verification to the identity provider's userinfo
	// endpoint, called with the bearer token.
	UserInfoURL string `toml:"user_info_url"`
	// Admins are granted the admin role regardless of their stored role, so a
	// fresh deployment has at least one admin.
	Admins []string `toml:"admins"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Secret: %s\n Issuer: %s\n Audience: %s\n UserInfoURL: %s\n Admins: %s",
		strings.Repeat("*", len(c.Secret)),
		c.Issuer,
		c.Audience,
		c.UserInfoURL,
		strings.Join(c.Admins, ", "),
	)
}
