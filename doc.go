// Package oauth implements "Sign in with LinkedIn" for Go web services.
//
// A Handler drives the login flow against a providers.Provider, usually the
// LinkedIn provider from providers/linkedin:
//
//	cfg, err := oauth.LoadConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//	provider, err := cfg.NewProvider(nil, nil)
//	if err != nil {
//		return err
//	}
//	h := oauth.NewHandler(provider, cfg.Options(logger), logger, nil)
//
//	mux.HandleFunc("/auth/linkedin", h.ServeLogin)
//	mux.HandleFunc("/auth/linkedin/callback", h.ServeCallback)
//
// Handler.Redirect and Handler.Callback are the library entry points for callers
// that bring their own HTTP layer. Provider failures reach the caller unchanged;
// ErrorFromProviderError maps them onto OAuth error responses.
package oauth
