package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giantswarm/linkedin-oauth/providers"
)

// legacyFetcher loads the user from the v2 profile and email endpoints.
type legacyFetcher struct {
	p *Provider
}

// emailAddressResponse is the projection elements*(handle~) of the email endpoint.
type emailAddressResponse struct {
	Elements []struct {
		Handle struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"handle~"`
	} `json:"elements"`
}

func (f *legacyFetcher) fetchUser(ctx context.Context, req *userRequest) (*UserResponse, error) {
	status, body, err := f.p.get(ctx, req, "profile", f.p.ProfileURL)
	if err != nil {
		return nil, err
	}
	if !providers.IsSuccess(status) {
		return nil, fmt.Errorf("profile request failed with status %d", status)
	}

	var user UserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	req.logger.Info("[provider user data]", "id", user.ID)

	status, body, err = f.p.get(ctx, req, "email", f.p.EmailURL)
	if err != nil {
		return nil, err
	}
	if !providers.IsSuccess(status) {
		return nil, fmt.Errorf("email request failed with status %d", status)
	}

	var email emailAddressResponse
	if err := json.Unmarshal(body, &email); err != nil {
		return nil, fmt.Errorf("failed to decode email address: %w", err)
	}
	if len(email.Elements) > 0 && email.Elements[0].Handle.EmailAddress != "" {
		user.Email = email.Elements[0].Handle.EmailAddress
	}

	firstName := user.FirstName.Localized.First()
	lastName := user.LastName.Localized.First()
	user.SimplifiedUser = providers.SimplifiedUser{
		ID:             user.ID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          user.Email,
		FullName:       strings.TrimSpace(firstName + " " + lastName),
		ProfilePicture: stringPtr(user.ProfilePicture.URL()),
	}

	return &user, nil
}
