package domain

// TokenPair is what the auth endpoints return: a short-lived access token
// and the refresh token whose fingerprint was just persisted.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
