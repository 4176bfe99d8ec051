// Package linkedin implements the providers.Provider interface for LinkedIn.
//
// A Provider builds the authorization URL, exchanges authorization codes at the
// LinkedIn token endpoint and fetches the signed-in member. Two API generations
// are supported for the user fetch and selected with Config.Variant:
//
//   - VariantOIDC (default) reads the OpenID Connect userinfo endpoint. A non-2xx
//     userinfo response yields a placeholder UserResponse with ID ErrorUserID and
//     the upstream error fields, not an error.
//   - VariantLegacy reads the v2 profile and email endpoints. Any non-2xx response
//     is an error.
//
// Every user fetch failure is returned as *providers.ProviderGetUserError.
//
// Example:
//
//	provider, err := linkedin.NewProvider(&linkedin.Config{Variant: linkedin.VariantOIDC})
//	if err != nil {
//		return err
//	}
//	authURL, err := provider.AuthorizationURL(providers.Options{
//		ClientID:    "client-id",
//		RedirectURL: "https://example.com/auth/linkedin/callback",
//	})
package linkedin
