package payment

import "context"

type GatewayInterface interface {
	CreatePreference(ctx context.Context, accessToken string, pref *PreferenceRequest) (*Preference, error)
}

var _ GatewayInterface = (*Client)(nil)
