package models

// Config holds the identity-provider settings used for service-to-service
// calls to the upstream inventory API.
type Config struct {
	KeycloakURL   string
	KeycloakRealm string
	ClientID      string
	ClientSecret  string
}

type M2MTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
